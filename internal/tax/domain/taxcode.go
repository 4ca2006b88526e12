package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxTreatment controls how an item classification affects tax application.
type TaxTreatment string

const (
	// TreatmentStandard applies the place-of-supply taxes unchanged.
	TreatmentStandard TaxTreatment = "standard"
	// TreatmentZeroRated applies the standard taxes with every rate forced
	// to zero. The lines are kept for compliance reporting.
	TreatmentZeroRated TaxTreatment = "zero_rated"
	// TreatmentExempt applies no taxes at all.
	TreatmentExempt TaxTreatment = "exempt"
	// TreatmentOutOfScope applies no taxes; the supply is outside the tax
	// system entirely (distinct from exempt for reporting).
	TreatmentOutOfScope TaxTreatment = "out_of_scope"
)

// TaxCode classifies catalog items for tax purposes. Codes carry a validity
// window; outside it the engine falls back to standard treatment.
type TaxCode struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Description   string       `gorm:"type:text" json:"description"`
	Treatment     TaxTreatment `gorm:"type:text;not null;default:'standard'" json:"treatment"`
	EffectiveDate time.Time    `gorm:"not null" json:"effective_date"`
	ExpiryDate    *time.Time   `json:"expiry_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaxCode) TableName() string { return "tax_codes" }

// ValidOn reports whether the code's validity window covers the date.
func (c *TaxCode) ValidOn(date time.Time) bool {
	if date.Before(c.EffectiveDate) {
		return false
	}
	return c.ExpiryDate == nil || !date.After(*c.ExpiryDate)
}

// TaxStatus is a customer's standing with the tax authority.
type TaxStatus string

const (
	TaxStatusRegular TaxStatus = "regular"
	// TaxStatusExempt covers status holders whose purchases are fully
	// exempt (e.g. diplomatic missions, certain First Nations purchases).
	TaxStatusExempt TaxStatus = "exempt"
)

// CustomerTaxProfile captures the tax-relevant facts about a customer as of
// an invoice date.
type CustomerTaxProfile struct {
	CustomerID      snowflake.ID `json:"customer_id"`
	PlaceOfSupplyID snowflake.ID `json:"place_of_supply_id"`
	EffectiveDate   time.Time    `json:"effective_date"`
	TaxStatus       TaxStatus    `json:"tax_status"`
}

// QualifiesForExemption reports whether the customer's purchases are fully
// exempt on the given date. Exemption overrides every other tax rule.
func (p CustomerTaxProfile) QualifiesForExemption(date time.Time) bool {
	return p.TaxStatus == TaxStatusExempt && !date.Before(p.EffectiveDate)
}
