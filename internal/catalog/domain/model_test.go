package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maplebill/maplebill/internal/money"
)

func TestItem_Validate(t *testing.T) {
	product := func() *Item {
		return &Item{
			ID: 1, SKU: "WID-1", Name: "Widget",
			UnitPrice: money.MustFromString("50.00"),
			Type:      ItemTypeProduct,
			Product:   &ProductDetails{WeightGrams: 250},
		}
	}

	assert.NoError(t, product().Validate())

	missing := product()
	missing.Product = nil
	assert.ErrorIs(t, missing.Validate(), ErrVariantMismatch)

	both := product()
	both.Service = &ServiceDetails{DurationMinutes: 30}
	assert.ErrorIs(t, both.Validate(), ErrVariantMismatch, "exactly one variant payload allowed")

	service := &Item{
		ID: 2, SKU: "SRV-1", Name: "Tune-up",
		UnitPrice: money.MustFromString("80.00"),
		Type:      ItemTypeService,
		Service:   &ServiceDetails{DurationMinutes: 60},
	}
	assert.NoError(t, service.Validate())

	wrongPayload := &Item{
		ID: 3, SKU: "SRV-2", Name: "Inspection",
		UnitPrice: money.MustFromString("40.00"),
		Type:      ItemTypeService,
		Product:   &ProductDetails{},
	}
	assert.ErrorIs(t, wrongPayload.Validate(), ErrVariantMismatch)

	unknown := product()
	unknown.Type = "subscription"
	assert.ErrorIs(t, unknown.Validate(), ErrUnknownItemType)

	negative := product()
	negative.UnitPrice = money.MustFromString("-1.00")
	assert.ErrorIs(t, negative.Validate(), ErrInvalidUnitPrice)
}
