// Package domain models the sellable catalog. Items are a tagged variant of
// product and service; the shared fields live on Item and the variant payload
// hangs off the matching pointer.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/maplebill/maplebill/internal/money"
)

// ItemType discriminates the item variant.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// ItemCategory groups items for reporting and default tax classification.
type ItemCategory string

const (
	CategoryGeneralGoods      ItemCategory = "general_goods"
	CategoryGroceries         ItemCategory = "groceries"
	CategoryPrescriptionDrugs ItemCategory = "prescription_drugs"
	CategoryMedicalDevices    ItemCategory = "medical_devices"
	CategoryProfessional      ItemCategory = "professional_services"
)

// Item is a catalog entry. Exactly one of Product / Service is set,
// matching Type.
type Item struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	SKU         string        `gorm:"type:text;not null;uniqueIndex" json:"sku"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	UnitPrice   money.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	UnitType    string        `gorm:"type:text;not null;default:'each'" json:"unit_type"`
	Type        ItemType      `gorm:"type:text;not null" json:"type"`
	Category    ItemCategory  `gorm:"type:text;not null;default:'general_goods'" json:"category"`
	TaxCode     string        `gorm:"type:text" json:"tax_code,omitempty"`

	Product *ProductDetails `gorm:"embedded;embeddedPrefix:product_" json:"product,omitempty"`
	Service *ServiceDetails `gorm:"embedded;embeddedPrefix:service_" json:"service,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ProductDetails is the product-variant payload.
type ProductDetails struct {
	WeightGrams      int64 `gorm:"column:weight_grams" json:"weight_grams,omitempty"`
	RequiresShipping bool  `gorm:"column:requires_shipping" json:"requires_shipping,omitempty"`
}

// ServiceDetails is the service-variant payload.
type ServiceDetails struct {
	DurationMinutes int64 `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
}

// Validate checks the variant payload matches the declared type.
func (i *Item) Validate() error {
	switch i.Type {
	case ItemTypeProduct:
		if i.Product == nil || i.Service != nil {
			return ErrVariantMismatch
		}
	case ItemTypeService:
		if i.Service == nil || i.Product != nil {
			return ErrVariantMismatch
		}
	default:
		return ErrUnknownItemType
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	return nil
}
