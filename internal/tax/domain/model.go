// Package domain holds the tax model: taxes with dated rate histories,
// tax codes with treatment rules, and the customer tax profile used to
// resolve which taxes apply to a line item.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/maplebill/maplebill/internal/money"
)

// Tax is a named tax (GST, HST, PST, ...) whose rate changes over time.
type Tax struct {
	ID       snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name     string         `gorm:"type:text;not null" json:"name"`
	Code     string         `gorm:"type:text;not null;uniqueIndex" json:"code"`
	IsGstHst bool           `gorm:"column:is_gst_hst;not null;default:false" json:"is_gst_hst"`
	Rates    TaxRateHistory `gorm:"type:jsonb;not null;default:'[]'" json:"rates"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tax) TableName() string { return "taxes" }

// TaxRate is one entry in a tax's rate history. A nil ExpiryDate means the
// rate is open-ended.
type TaxRate struct {
	Code          string        `json:"code"`
	Rate          money.Decimal `json:"rate"`
	EffectiveDate time.Time     `json:"effective_date"`
	ExpiryDate    *time.Time    `json:"expiry_date,omitempty"`
}

// InEffectOn reports whether the rate covers the given date. Both bounds are
// inclusive.
func (r TaxRate) InEffectOn(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	return r.ExpiryDate == nil || !date.After(*r.ExpiryDate)
}

// NewTaxRate validates and builds a rate history entry.
func NewTaxRate(code string, rate money.Decimal, effective time.Time, expiry *time.Time) (TaxRate, error) {
	if code == "" {
		return TaxRate{}, ErrInvalidTaxCode
	}
	if rate.IsNegative() {
		return TaxRate{}, ErrInvalidTaxRate
	}
	if effective.Before(time.Unix(0, 0).UTC()) {
		return TaxRate{}, ErrInvalidEffectiveDate
	}
	return TaxRate{Code: code, Rate: rate, EffectiveDate: effective, ExpiryDate: expiry}, nil
}

// AddRate appends a rate entry, returning the tax for chaining. Invalid
// entries panic; seed data and admin flows validate via NewTaxRate first.
func (t *Tax) AddRate(rate money.Decimal, effective time.Time, expiry *time.Time) *Tax {
	entry, err := NewTaxRate(t.Code, rate, effective, expiry)
	if err != nil {
		panic(err)
	}
	t.Rates = append(t.Rates, entry)
	return t
}

// RateOn resolves the applicable rate for a date: the entry with the latest
// effective date that is <= date and not yet expired. Returns nil when no
// rate covers the date: absent, not zero.
func (t *Tax) RateOn(date time.Time) *ApplicableTax {
	var best *TaxRate
	for i := range t.Rates {
		r := &t.Rates[i]
		if !r.InEffectOn(date) {
			continue
		}
		if best == nil || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return &ApplicableTax{TaxID: t.ID, Name: t.Name, Code: t.Code, Rate: best.Rate}
}

// Rename updates the UI-facing identity of the tax.
func (t *Tax) Rename(name, code string) error {
	if name == "" {
		return ErrInvalidName
	}
	if code == "" {
		return ErrInvalidTaxCode
	}
	t.Name = name
	t.Code = code
	return nil
}

// ApplicableTax is a resolved (tax, rate) pair for a specific date.
type ApplicableTax struct {
	TaxID snowflake.ID  `json:"tax_id"`
	Name  string        `json:"name"`
	Code  string        `json:"code"`
	Rate  money.Decimal `json:"rate"`
}

// ZeroRated returns a copy with the rate forced to zero. Zero-rated lines are
// kept for compliance reporting even though they contribute no amount.
func (a ApplicableTax) ZeroRated() ApplicableTax {
	a.Rate = money.Zero()
	return a
}
