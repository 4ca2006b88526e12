package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Engine resolves applicable taxes for invoicing. Lookups are I/O-bound and
// honor context cancellation; the invoice aggregate itself never performs I/O.
type Engine interface {
	// GetTaxes returns the province's taxes that have a valid rate on the
	// date. Taxes without a rate in effect are omitted, not zero-filled.
	GetTaxes(ctx context.Context, provinceID snowflake.ID, date time.Time) ([]ApplicableTax, error)

	// GetTaxesForItem applies exemption, classification, and treatment
	// rules for a single line item, identified by its snapshot tax code.
	// An empty taxCode falls back to the standard place-of-supply taxes.
	GetTaxesForItem(ctx context.Context, taxCode string, profile CustomerTaxProfile, date time.Time) ([]ApplicableTax, error)

	// GetTaxProfile derives a customer's tax profile as of the invoice
	// date, resolving place of supply from the billing address.
	GetTaxProfile(ctx context.Context, customerID snowflake.ID, invoiceDate time.Time) (CustomerTaxProfile, error)
}

// Repository provides tax and tax-code lookups.
type Repository interface {
	FindTaxByCode(ctx context.Context, code string) (*Tax, error)
	ListTaxes(ctx context.Context) ([]Tax, error)
	// FindTaxCode returns nil (no error) when the code does not exist; the
	// engine treats an unknown code as standard treatment.
	FindTaxCode(ctx context.Context, code string) (*TaxCode, error)
}
