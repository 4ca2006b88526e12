package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/maplebill/maplebill/internal/money"
)

// SurchargeTaxTreatment records whether a surcharge is itself taxable.
// NOTE: the treatment is carried for reporting but tax totals do not yet
// fold surcharge tax in; see Invoice.TaxAmount.
type SurchargeTaxTreatment string

const (
	SurchargeTaxable    SurchargeTaxTreatment = "taxable"
	SurchargeNonTaxable SurchargeTaxTreatment = "non_taxable"
)

// Surcharge is a configured surcharge rule (fuel fee, card processing fee).
// Rate is a fraction applied to the discounted subtotal plus shipping.
type Surcharge struct {
	ID           snowflake.ID          `gorm:"primaryKey" json:"id"`
	Name         string                `gorm:"type:text;not null" json:"name"`
	FixedAmount  money.Decimal         `gorm:"type:numeric(12,2);not null;default:0" json:"fixed_amount"`
	Rate         money.Decimal         `gorm:"type:numeric(8,5);not null;default:0" json:"rate"`
	TaxTreatment SurchargeTaxTreatment `gorm:"type:text;not null;default:'non_taxable'" json:"tax_treatment"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Surcharge) TableName() string { return "surcharges" }

// AppliedSurcharge is a surcharge snapshot on the invoice.
type AppliedSurcharge struct {
	ID           snowflake.ID          `json:"id"`
	Name         string                `json:"name"`
	FixedAmount  money.Decimal         `json:"fixed_amount"`
	Rate         money.Decimal         `json:"rate"`
	TaxTreatment SurchargeTaxTreatment `json:"tax_treatment"`
}

// Amount computes the surcharge against the base amount (discounted subtotal
// plus shipping), rounded to cents.
func (s AppliedSurcharge) Amount(base money.Decimal) money.Decimal {
	return money.Round2(base.Mul(s.Rate).Add(s.FixedAmount))
}
