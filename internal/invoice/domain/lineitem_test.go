package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/money"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

func snapshot(id snowflake.ID, name, price string) ItemSnapshot {
	return ItemSnapshot{
		ItemID:    id,
		SKU:       "SKU-" + name,
		Name:      name,
		UnitPrice: money.MustFromString(price),
		UnitType:  "each",
		ItemType:  catalogdomain.ItemTypeProduct,
		Category:  catalogdomain.CategoryGeneralGoods,
	}
}

func TestLineItem_SubtotalAndTotal(t *testing.T) {
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	li, err := li.SetQuantity(money.FromInt(2))
	require.NoError(t, err)

	assert.Equal(t, "100.00", li.Subtotal().StringFixed(2))
	assert.Equal(t, "100.00", li.Total().StringFixed(2), "no discounts or taxes yet")
}

func TestLineItem_SetQuantity_RejectsNegative(t *testing.T) {
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	_, err := li.SetQuantity(money.MustFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	zero, err := li.SetQuantity(money.Zero())
	require.NoError(t, err, "zero quantity is a placeholder line")
	assert.True(t, zero.Subtotal().IsZero())
}

func TestLineItem_PerUnitDiscount(t *testing.T) {
	// 2 x $50.00 with $5 off per unit: discount 10.00, total 90.00.
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	li, err := li.SetQuantity(money.FromInt(2))
	require.NoError(t, err)

	li, err = li.AddDiscount(Discount{
		ID:          100,
		Name:        "$5 off per unit",
		Scope:       ScopePerUnit,
		FixedAmount: money.FromInt(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "10.00", li.Discount().StringFixed(2))
	assert.Equal(t, "90.00", li.Total().StringFixed(2))
}

func TestLineItem_PerLineItemDiscount(t *testing.T) {
	// Per-line-item fixed discounts do not scale with quantity.
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	li, err := li.SetQuantity(money.FromInt(2))
	require.NoError(t, err)

	li, err = li.AddDiscount(Discount{
		ID:          101,
		Name:        "$5 off the line",
		Scope:       ScopePerLineItem,
		FixedAmount: money.FromInt(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "5.00", li.Discount().StringFixed(2))
	assert.Equal(t, "95.00", li.Total().StringFixed(2))
}

func TestLineItem_PercentageDiscountScalesWithQuantity(t *testing.T) {
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	li, err := li.SetQuantity(money.FromInt(3))
	require.NoError(t, err)

	li, err = li.AddDiscount(Discount{
		ID:         102,
		Name:       "10% off",
		Scope:      ScopePerLineItem,
		Percentage: money.MustFromString("0.10"),
	})
	require.NoError(t, err)

	assert.Equal(t, "15.00", li.Discount().StringFixed(2))
	assert.Equal(t, "135.00", li.Total().StringFixed(2))
}

func TestLineItem_AddDiscount_RejectsOrderScope(t *testing.T) {
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	_, err := li.AddDiscount(Discount{ID: 103, Scope: ScopePerOrder, FixedAmount: money.FromInt(5)})
	assert.ErrorIs(t, err, ErrInvalidDiscountScope)
}

func TestLineItem_TaxOnDiscountedSubtotal(t *testing.T) {
	// Taxes apply after discounts: (100 - 10) * 0.13 = 11.70.
	li := NewLineItem(snapshot(1, "Widget", "50.00"))
	li, err := li.SetQuantity(money.FromInt(2))
	require.NoError(t, err)
	li, err = li.AddDiscount(Discount{ID: 104, Scope: ScopePerUnit, FixedAmount: money.FromInt(5)})
	require.NoError(t, err)

	li = li.ApplyTaxes([]taxdomain.ApplicableTax{
		{TaxID: 1, Name: "HST", Code: "ON-HST", Rate: money.MustFromString("0.13")},
	})

	assert.Equal(t, "11.70", li.TaxAmount().StringFixed(2))
	assert.Equal(t, "101.70", li.Total().StringFixed(2))
}

func TestLineItem_TaxesStackWithoutCompounding(t *testing.T) {
	// GST 5% and PST 7% each apply to the same base, never to each other:
	// 100 * 0.05 + 100 * 0.07 = 12.00, not 100 * 1.05 * 0.07.
	li := NewLineItem(snapshot(1, "Widget", "100.00"))
	li = li.ApplyTaxes([]taxdomain.ApplicableTax{
		{TaxID: 1, Name: "GST", Rate: money.MustFromString("0.05")},
		{TaxID: 2, Name: "PST", Rate: money.MustFromString("0.07")},
	})

	assert.Equal(t, "12.00", li.TaxAmount().StringFixed(2))
	assert.Equal(t, "112.00", li.Total().StringFixed(2))
}

func TestLineItem_ApplyTaxes_ReplacesNotAppends(t *testing.T) {
	li := NewLineItem(snapshot(1, "Widget", "100.00"))
	rates := []taxdomain.ApplicableTax{{TaxID: 1, Name: "GST", Rate: money.MustFromString("0.05")}}

	li = li.ApplyTaxes(rates)
	li = li.ApplyTaxes(rates)

	require.Len(t, li.Taxes, 1, "re-application must not duplicate tax lines")
	assert.Equal(t, "5.00", li.TaxAmount().StringFixed(2))
}

func TestLineItem_CopyOnWrite(t *testing.T) {
	original := NewLineItem(snapshot(1, "Widget", "50.00"))

	updated, err := original.SetQuantity(money.FromInt(5))
	require.NoError(t, err)
	assert.True(t, original.Quantity.Equal(money.FromInt(1)), "receiver untouched")
	assert.True(t, updated.Quantity.Equal(money.FromInt(5)))

	discounted, err := original.AddDiscount(Discount{ID: 1, Scope: ScopePerUnit, FixedAmount: money.FromInt(1)})
	require.NoError(t, err)
	assert.Empty(t, original.Discounts, "receiver untouched")
	assert.Len(t, discounted.Discounts, 1)
}

func TestLineItem_Equal(t *testing.T) {
	a := NewLineItem(snapshot(1, "Widget", "50.00"))
	b := NewLineItem(snapshot(1, "Widget", "50.00"))
	assert.True(t, a.Equal(b))

	c, err := b.SetQuantity(money.FromInt(2))
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	d := a.SetSortOrder(3)
	assert.False(t, a.Equal(d), "sort order participates in equality")

	e := a.ApplyTaxes([]taxdomain.ApplicableTax{{TaxID: 1, Name: "GST", Rate: money.MustFromString("0.05")}})
	assert.False(t, a.Equal(e))

	other := NewLineItem(snapshot(2, "Widget", "50.00"))
	assert.False(t, a.Equal(other), "different catalog item")
}
