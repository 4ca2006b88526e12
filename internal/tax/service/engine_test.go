package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	"github.com/maplebill/maplebill/internal/money"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type taxRepoStub struct {
	codes map[string]*taxdomain.TaxCode
}

func (s *taxRepoStub) FindTaxByCode(ctx context.Context, code string) (*taxdomain.Tax, error) {
	return nil, taxdomain.ErrNotFound
}

func (s *taxRepoStub) ListTaxes(ctx context.Context) ([]taxdomain.Tax, error) {
	return nil, nil
}

func (s *taxRepoStub) FindTaxCode(ctx context.Context, code string) (*taxdomain.TaxCode, error) {
	return s.codes[code], nil
}

type provinceRepoStub struct {
	byID   map[snowflake.ID]*provincedomain.Province
	byCode map[string]*provincedomain.Province
}

func (s *provinceRepoStub) Insert(ctx context.Context, p *provincedomain.Province) error { return nil }

func (s *provinceRepoStub) FindByID(ctx context.Context, id snowflake.ID) (*provincedomain.Province, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, provincedomain.ErrNotFound
}

func (s *provinceRepoStub) FindByCode(ctx context.Context, code string) (*provincedomain.Province, error) {
	if p, ok := s.byCode[code]; ok {
		return p, nil
	}
	return nil, provincedomain.ErrNotFound
}

func (s *provinceRepoStub) List(ctx context.Context) ([]provincedomain.Province, error) {
	return nil, nil
}

func (s *provinceRepoStub) Count(ctx context.Context) (int64, error) { return 0, nil }

type customerRepoStub struct {
	customers map[snowflake.ID]*customerdomain.Customer
}

func (s *customerRepoStub) Insert(ctx context.Context, c *customerdomain.Customer) error { return nil }

func (s *customerRepoStub) FindByID(ctx context.Context, id snowflake.ID) (*customerdomain.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return c, nil
	}
	return nil, customerdomain.ErrNotFound
}

func (s *customerRepoStub) List(ctx context.Context) ([]customerdomain.Customer, error) {
	return nil, nil
}

const (
	ontarioID = snowflake.ID(13)
	bcID      = snowflake.ID(59)
)

func newTestEngine(t *testing.T, codes map[string]*taxdomain.TaxCode) taxdomain.Engine {
	t.Helper()

	hst := &taxdomain.Tax{ID: 1, Name: "HST", Code: "ON-HST", IsGstHst: true}
	hst.AddRate(money.MustFromString("0.13"), date(2010, 7, 1), nil)

	gst := &taxdomain.Tax{ID: 2, Name: "GST", Code: "GST", IsGstHst: true}
	gst.AddRate(money.MustFromString("0.05"), date(2008, 1, 1), nil)

	pst := &taxdomain.Tax{ID: 3, Name: "PST", Code: "BC-PST"}
	pst.AddRate(money.MustFromString("0.07"), date(2013, 4, 1), nil)

	ontario, err := provincedomain.New(ontarioID, "Ontario", "ON", []taxdomain.Tax{*hst})
	require.NoError(t, err)
	bc, err := provincedomain.New(bcID, "British Columbia", "BC", []taxdomain.Tax{*gst, *pst})
	require.NoError(t, err)

	return NewEngine(EngineParam{
		Log:     zap.NewNop(),
		TaxRepo: &taxRepoStub{codes: codes},
		Provinces: &provinceRepoStub{
			byID:   map[snowflake.ID]*provincedomain.Province{ontarioID: ontario, bcID: bc},
			byCode: map[string]*provincedomain.Province{"ON": ontario, "BC": bc},
		},
		Customers: &customerRepoStub{customers: map[snowflake.ID]*customerdomain.Customer{
			7: {
				ID:        7,
				Name:      "Northern Outfitters",
				TaxStatus: taxdomain.TaxStatusRegular,
				Addresses: customerdomain.AddressBook{{
					Line1: "100 Queen St W", City: "Toronto", Province: "ON",
					Country: "CA", IsDefault: true,
				}},
			},
			8: {
				ID:        8,
				Name:      "First Nations Band Office",
				TaxStatus: taxdomain.TaxStatusExempt,
				Addresses: customerdomain.AddressBook{{
					Line1: "1 Main St", City: "Vancouver", Province: "BC",
					Country: "CA", IsDefault: true,
				}},
			},
		}},
	})
}

func regularProfile(provinceID snowflake.ID) taxdomain.CustomerTaxProfile {
	return taxdomain.CustomerTaxProfile{
		CustomerID:      7,
		PlaceOfSupplyID: provinceID,
		EffectiveDate:   date(2025, 1, 1),
		TaxStatus:       taxdomain.TaxStatusRegular,
	}
}

func TestEngine_GetTaxes_OmitsTaxesWithoutRateInEffect(t *testing.T) {
	engine := newTestEngine(t, nil)

	taxes, err := engine.GetTaxes(context.Background(), bcID, date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 2)

	// Before BC PST was reinstated, only GST has a rate in effect.
	taxes, err = engine.GetTaxes(context.Background(), bcID, date(2010, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "GST", taxes[0].Name)
}

func TestEngine_GetTaxes_UnknownProvince(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.GetTaxes(context.Background(), 999, date(2025, 6, 1))
	assert.ErrorIs(t, err, provincedomain.ErrNotFound)
}

func TestEngine_GetTaxesForItem_ExemptCustomerBeatsEverything(t *testing.T) {
	engine := newTestEngine(t, map[string]*taxdomain.TaxCode{
		"STANDARD": {Code: "STANDARD", Treatment: taxdomain.TreatmentStandard, EffectiveDate: date(2000, 1, 1)},
	})
	profile := taxdomain.CustomerTaxProfile{
		CustomerID:      8,
		PlaceOfSupplyID: ontarioID,
		EffectiveDate:   date(2025, 1, 1),
		TaxStatus:       taxdomain.TaxStatusExempt,
	}

	taxes, err := engine.GetTaxesForItem(context.Background(), "STANDARD", profile, date(2025, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, taxes)
}

func TestEngine_GetTaxesForItem_EmptyCodeUsesStandardTaxes(t *testing.T) {
	engine := newTestEngine(t, nil)

	taxes, err := engine.GetTaxesForItem(context.Background(), "", regularProfile(ontarioID), date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "HST", taxes[0].Name)
	assert.True(t, taxes[0].Rate.Equal(money.MustFromString("0.13")))
}

func TestEngine_GetTaxesForItem_UnknownCodeFallsBackToStandard(t *testing.T) {
	engine := newTestEngine(t, nil)

	taxes, err := engine.GetTaxesForItem(context.Background(), "NO-SUCH-CODE", regularProfile(ontarioID), date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "HST", taxes[0].Name)
}

func TestEngine_GetTaxesForItem_ExpiredCodeFallsBackToStandard(t *testing.T) {
	expiry := date(2020, 12, 31)
	engine := newTestEngine(t, map[string]*taxdomain.TaxCode{
		"LEGACY": {Code: "LEGACY", Treatment: taxdomain.TreatmentExempt, EffectiveDate: date(2000, 1, 1), ExpiryDate: &expiry},
	})

	taxes, err := engine.GetTaxesForItem(context.Background(), "LEGACY", regularProfile(ontarioID), date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 1, "an expired exemption code no longer exempts")

	// Within the validity window the exempt treatment still applies.
	taxes, err = engine.GetTaxesForItem(context.Background(), "LEGACY", regularProfile(ontarioID), date(2019, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, taxes)
}

func TestEngine_GetTaxesForItem_ZeroRatedKeepsTaxLinesAtZero(t *testing.T) {
	engine := newTestEngine(t, map[string]*taxdomain.TaxCode{
		"GROCERY": {Code: "GROCERY", Treatment: taxdomain.TreatmentZeroRated, EffectiveDate: date(2000, 1, 1)},
	})

	taxes, err := engine.GetTaxesForItem(context.Background(), "GROCERY", regularProfile(bcID), date(2025, 6, 1))
	require.NoError(t, err)
	require.Len(t, taxes, 2, "zero-rated keeps both GST and PST lines")
	for _, at := range taxes {
		assert.True(t, at.Rate.IsZero(), "%s must be zero-rated", at.Name)
	}
}

func TestEngine_GetTaxesForItem_OutOfScope(t *testing.T) {
	engine := newTestEngine(t, map[string]*taxdomain.TaxCode{
		"OOS": {Code: "OOS", Treatment: taxdomain.TreatmentOutOfScope, EffectiveDate: date(2000, 1, 1)},
	})

	taxes, err := engine.GetTaxesForItem(context.Background(), "OOS", regularProfile(ontarioID), date(2025, 6, 1))
	require.NoError(t, err)
	assert.Empty(t, taxes)
}

func TestEngine_GetTaxProfile(t *testing.T) {
	engine := newTestEngine(t, nil)
	invoiceDate := date(2025, 6, 1)

	profile, err := engine.GetTaxProfile(context.Background(), 7, invoiceDate)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(7), profile.CustomerID)
	assert.Equal(t, ontarioID, profile.PlaceOfSupplyID)
	assert.Equal(t, invoiceDate, profile.EffectiveDate)
	assert.Equal(t, taxdomain.TaxStatusRegular, profile.TaxStatus)

	exempt, err := engine.GetTaxProfile(context.Background(), 8, invoiceDate)
	require.NoError(t, err)
	assert.Equal(t, taxdomain.TaxStatusExempt, exempt.TaxStatus)
	assert.Equal(t, bcID, exempt.PlaceOfSupplyID)
}

func TestEngine_GetTaxProfile_UnknownCustomer(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.GetTaxProfile(context.Background(), 999, date(2025, 6, 1))
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
}
