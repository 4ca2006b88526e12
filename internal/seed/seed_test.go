package seed

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	provincerepo "github.com/maplebill/maplebill/internal/province/repository"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
	taxrepo "github.com/maplebill/maplebill/internal/tax/repository"
)

func setupSeed(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taxdomain.Tax{}, &taxdomain.TaxCode{}, &provincedomain.Province{}))
	require.NoError(t, EnsureCanadianTaxData(db))
	return db
}

func TestEnsureCanadianTaxData_AllJurisdictions(t *testing.T) {
	db := setupSeed(t)
	provinces := provincerepo.Provide(db)

	list, err := provinces.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 13, "10 provinces and 3 territories")
}

func TestEnsureCanadianTaxData_OntarioHST(t *testing.T) {
	db := setupSeed(t)
	provinces := provincerepo.Provide(db)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	on, err := provinces.FindByCode(context.Background(), "on")
	require.NoError(t, err, "lookups are case-insensitive")
	require.Len(t, on.Taxes, 1, "HST provinces carry the harmonized tax only")

	at := on.Taxes[0].RateOn(today)
	require.NotNil(t, at)
	assert.Equal(t, "HST", at.Name)
	assert.Equal(t, "0.13", at.Rate.String())
}

func TestEnsureCanadianTaxData_BritishColumbiaGSTPlusPST(t *testing.T) {
	db := setupSeed(t)
	provinces := provincerepo.Provide(db)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	bc, err := provinces.FindByCode(context.Background(), "BC")
	require.NoError(t, err)
	require.Len(t, bc.Taxes, 2)

	var rates []string
	for i := range bc.Taxes {
		at := bc.Taxes[i].RateOn(today)
		require.NotNil(t, at)
		rates = append(rates, at.Rate.String())
	}
	assert.ElementsMatch(t, []string{"0.05", "0.07"}, rates)
}

func TestEnsureCanadianTaxData_HistoricalGSTRates(t *testing.T) {
	db := setupSeed(t)
	taxes := taxrepo.Provide(db)

	gst, err := taxes.FindTaxByCode(context.Background(), "GST")
	require.NoError(t, err)

	cases := []struct {
		on   time.Time
		want string
	}{
		{time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC), "0.07"},
		{time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC), "0.06"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "0.05"},
	}
	for _, tc := range cases {
		at := gst.RateOn(tc.on)
		require.NotNil(t, at, "GST rate on %s", tc.on)
		assert.Equal(t, tc.want, at.Rate.String(), "GST rate on %s", tc.on)
	}
}

func TestEnsureCanadianTaxData_TaxCodes(t *testing.T) {
	db := setupSeed(t)
	taxes := taxrepo.Provide(db)
	ctx := context.Background()

	grocery, err := taxes.FindTaxCode(ctx, "GROCERY")
	require.NoError(t, err)
	require.NotNil(t, grocery)
	assert.Equal(t, taxdomain.TreatmentZeroRated, grocery.Treatment)

	exempt, err := taxes.FindTaxCode(ctx, "EXEMPT")
	require.NoError(t, err)
	require.NotNil(t, exempt)
	assert.Equal(t, taxdomain.TreatmentExempt, exempt.Treatment)
}

func TestEnsureCanadianTaxData_Idempotent(t *testing.T) {
	db := setupSeed(t)

	// Running the seed again must not duplicate rows.
	require.NoError(t, EnsureCanadianTaxData(db))

	var provinceCount, taxCount int64
	require.NoError(t, db.Model(&provincedomain.Province{}).Count(&provinceCount).Error)
	require.NoError(t, db.Model(&taxdomain.Tax{}).Count(&taxCount).Error)
	assert.Equal(t, int64(13), provinceCount)
	assert.Equal(t, int64(10), taxCount, "GST plus the nine provincial taxes")
}
