package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/maplebill/maplebill/internal/money"
)

// DiscountScope says what a discount applies to.
type DiscountScope string

const (
	// ScopePerOrder discounts attach to the invoice.
	ScopePerOrder DiscountScope = "per_order"
	// ScopePerLineItem discounts attach to one line item's total.
	ScopePerLineItem DiscountScope = "per_line_item"
	// ScopePerUnit discounts attach to a line item and multiply their
	// fixed amount by the quantity.
	ScopePerUnit DiscountScope = "per_unit"
)

// Discount is a configured discount rule. Percentage is a fraction
// (0.10 for 10%); FixedAmount is in dollars.
type Discount struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Scope       DiscountScope `gorm:"type:text;not null" json:"scope"`
	Percentage  money.Decimal `gorm:"type:numeric(8,5);not null;default:0" json:"percentage"`
	FixedAmount money.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"fixed_amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Discount) TableName() string { return "discounts" }

// ItemDiscount is a discount snapshot applied to a line item.
type ItemDiscount struct {
	ID          snowflake.ID  `json:"id"`
	Name        string        `json:"name"`
	Scope       DiscountScope `json:"scope"`
	Percentage  money.Decimal `json:"percentage"`
	FixedAmount money.Decimal `json:"fixed_amount"`
}

// Amount computes the discount for a line item, rounded to cents here so
// sub-amounts are penny-reproducible before summation.
func (d ItemDiscount) Amount(li LineItem) money.Decimal {
	amount := li.Item.UnitPrice.Mul(d.Percentage).Mul(li.Quantity)
	if d.Scope == ScopePerUnit {
		amount = amount.Add(d.FixedAmount.Mul(li.Quantity))
	} else {
		amount = amount.Add(d.FixedAmount)
	}
	return money.Round2(amount)
}

func (d ItemDiscount) Equal(other ItemDiscount) bool {
	return d.ID == other.ID &&
		d.Name == other.Name &&
		d.Scope == other.Scope &&
		d.Percentage.Equal(other.Percentage) &&
		d.FixedAmount.Equal(other.FixedAmount)
}

// AppliedDiscount is an order-level discount snapshot on the invoice.
type AppliedDiscount struct {
	ID          snowflake.ID  `json:"id"`
	Name        string        `json:"name"`
	FixedAmount money.Decimal `json:"fixed_amount"`
	Percentage  money.Decimal `json:"percentage"`
}

// Amount computes the discount against the eligible amount
// (invoice subtotal minus line-item discounts), rounded to cents.
func (d AppliedDiscount) Amount(eligible money.Decimal) money.Decimal {
	amount := money.Zero()
	if d.Percentage.IsPositive() {
		amount = amount.Add(eligible.Mul(d.Percentage))
	}
	if d.FixedAmount.IsPositive() {
		amount = amount.Add(d.FixedAmount)
	}
	return money.Round2(amount)
}
