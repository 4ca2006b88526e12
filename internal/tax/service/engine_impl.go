package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

type EngineParam struct {
	fx.In

	Log       *zap.Logger
	TaxRepo   taxdomain.Repository
	Provinces provincedomain.Repository
	Customers customerdomain.Repository
}

type engine struct {
	log       *zap.Logger
	taxRepo   taxdomain.Repository
	provinces provincedomain.Repository
	customers customerdomain.Repository
}

// NewEngine builds the Canadian tax engine.
func NewEngine(p EngineParam) taxdomain.Engine {
	return &engine{
		log:       p.Log.Named("tax.engine"),
		taxRepo:   p.TaxRepo,
		provinces: p.Provinces,
		customers: p.Customers,
	}
}

// GetTaxes returns the province's taxes that have a rate in effect on the
// date. Taxes with no valid rate are omitted entirely.
func (e *engine) GetTaxes(ctx context.Context, provinceID snowflake.ID, date time.Time) ([]taxdomain.ApplicableTax, error) {
	province, err := e.provinces.FindByID(ctx, provinceID)
	if err != nil {
		return nil, err
	}

	list := make([]taxdomain.ApplicableTax, 0, len(province.Taxes))
	for i := range province.Taxes {
		if at := province.Taxes[i].RateOn(date); at != nil {
			list = append(list, *at)
		}
	}
	return list, nil
}

// GetTaxesForItem resolves taxes for one line item.
//
// Precedence: full customer exemption beats everything; then the item's tax
// code treatment; unknown or expired codes fall back to the standard
// place-of-supply taxes.
func (e *engine) GetTaxesForItem(ctx context.Context, taxCode string, profile taxdomain.CustomerTaxProfile, date time.Time) ([]taxdomain.ApplicableTax, error) {
	if profile.QualifiesForExemption(date) {
		return []taxdomain.ApplicableTax{}, nil
	}

	if taxCode == "" {
		return e.GetTaxes(ctx, profile.PlaceOfSupplyID, date)
	}

	code, err := e.taxRepo.FindTaxCode(ctx, taxCode)
	if err != nil {
		return nil, err
	}
	if code == nil || !code.ValidOn(date) {
		e.log.Debug("tax code missing or expired, using standard taxes",
			zap.String("tax_code", taxCode))
		return e.GetTaxes(ctx, profile.PlaceOfSupplyID, date)
	}

	switch code.Treatment {
	case taxdomain.TreatmentExempt, taxdomain.TreatmentOutOfScope:
		return []taxdomain.ApplicableTax{}, nil
	case taxdomain.TreatmentZeroRated:
		return e.zeroRated(ctx, profile.PlaceOfSupplyID, date)
	default:
		return e.GetTaxes(ctx, profile.PlaceOfSupplyID, date)
	}
}

// GetTaxProfile derives the customer's tax profile as of the invoice date.
// Place of supply comes from the billing address province.
func (e *engine) GetTaxProfile(ctx context.Context, customerID snowflake.ID, invoiceDate time.Time) (taxdomain.CustomerTaxProfile, error) {
	customer, err := e.customers.FindByID(ctx, customerID)
	if err != nil {
		return taxdomain.CustomerTaxProfile{}, err
	}

	billing, err := customer.BillingAddress()
	if err != nil {
		return taxdomain.CustomerTaxProfile{}, err
	}

	province, err := e.provinces.FindByCode(ctx, billing.Province)
	if err != nil {
		return taxdomain.CustomerTaxProfile{}, err
	}

	return taxdomain.CustomerTaxProfile{
		CustomerID:      customer.ID,
		PlaceOfSupplyID: province.ID,
		EffectiveDate:   invoiceDate,
		TaxStatus:       customer.TaxStatus,
	}, nil
}

// zeroRated returns the standard taxes with each rate forced to zero so the
// lines still appear for compliance reporting.
func (e *engine) zeroRated(ctx context.Context, provinceID snowflake.ID, date time.Time) ([]taxdomain.ApplicableTax, error) {
	list, err := e.GetTaxes(ctx, provinceID, date)
	if err != nil {
		return nil, err
	}
	out := make([]taxdomain.ApplicableTax, 0, len(list))
	for _, at := range list {
		out = append(out, at.ZeroRated())
	}
	return out, nil
}
