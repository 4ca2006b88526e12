package domain

import "errors"

var (
	ErrNotFound             = errors.New("not_found")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidTaxCode       = errors.New("invalid_tax_code")
	ErrInvalidTaxRate       = errors.New("invalid_tax_rate")
	ErrInvalidEffectiveDate = errors.New("invalid_effective_date")
)
