package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplebill/maplebill/internal/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// gst builds the federal GST with its full historical rate schedule.
func gst() *Tax {
	t := &Tax{ID: 1, Name: "GST", Code: "GST", IsGstHst: true}
	t.AddRate(money.MustFromString("0.07"), date(1991, 1, 1), datePtr(2006, 6, 30))
	t.AddRate(money.MustFromString("0.06"), date(2006, 7, 1), datePtr(2007, 12, 31))
	t.AddRate(money.MustFromString("0.05"), date(2008, 1, 1), nil)
	return t
}

func TestTax_RateOn_ResolvesHistoricalWindows(t *testing.T) {
	tax := gst()

	cases := []struct {
		name string
		on   time.Time
		want string
	}{
		{"mid 2007 window", date(2007, 1, 1), "0.06"},
		{"current open-ended rate", date(2020, 6, 15), "0.05"},
		{"original rate", date(1995, 3, 3), "0.07"},
		{"effective date inclusive", date(2006, 7, 1), "0.06"},
		{"expiry date inclusive", date(2006, 6, 30), "0.07"},
		{"first day of current rate", date(2008, 1, 1), "0.05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := tax.RateOn(tc.on)
			require.NotNil(t, at)
			assert.True(t, at.Rate.Equal(money.MustFromString(tc.want)), "got %s", at.Rate)
			assert.Equal(t, "GST", at.Name)
			assert.Equal(t, tax.ID, at.TaxID)
		})
	}
}

func TestTax_RateOn_NoCoverageReturnsNil(t *testing.T) {
	tax := gst()
	assert.Nil(t, tax.RateOn(date(1980, 1, 1)), "date before any rate window")
	assert.Nil(t, (&Tax{ID: 2, Name: "PST", Code: "PST"}).RateOn(date(2020, 1, 1)), "tax with no rates")
}

func TestTax_RateOn_OverlappingWindowsLatestEffectiveWins(t *testing.T) {
	tax := &Tax{ID: 3, Name: "PST", Code: "PST"}
	tax.AddRate(money.MustFromString("0.07"), date(2010, 1, 1), nil)
	tax.AddRate(money.MustFromString("0.08"), date(2015, 1, 1), nil)

	at := tax.RateOn(date(2016, 1, 1))
	require.NotNil(t, at)
	assert.True(t, at.Rate.Equal(money.MustFromString("0.08")))

	at = tax.RateOn(date(2012, 1, 1))
	require.NotNil(t, at)
	assert.True(t, at.Rate.Equal(money.MustFromString("0.07")))
}

func TestNewTaxRate_Validation(t *testing.T) {
	_, err := NewTaxRate("", money.MustFromString("0.05"), date(2020, 1, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidTaxCode)

	_, err = NewTaxRate("GST", money.MustFromString("-0.05"), date(2020, 1, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidTaxRate)

	r, err := NewTaxRate("GST", money.Zero(), date(2020, 1, 1), nil)
	require.NoError(t, err, "zero rate is valid, used for zero-rated reporting")
	assert.True(t, r.Rate.IsZero())
}

func TestTax_Rename(t *testing.T) {
	tax := gst()
	assert.ErrorIs(t, tax.Rename("", "GST"), ErrInvalidName)
	assert.ErrorIs(t, tax.Rename("GST", ""), ErrInvalidTaxCode)
	require.NoError(t, tax.Rename("Goods and Services Tax", "GST"))
	assert.Equal(t, "Goods and Services Tax", tax.Name)
}

func TestApplicableTax_ZeroRated(t *testing.T) {
	at := ApplicableTax{TaxID: 1, Name: "GST", Code: "GST", Rate: money.MustFromString("0.05")}
	zr := at.ZeroRated()
	assert.True(t, zr.Rate.IsZero())
	assert.Equal(t, "GST", zr.Name, "identity survives zero-rating")
	assert.True(t, at.Rate.Equal(money.MustFromString("0.05")), "original unchanged")
}

func TestTaxCode_ValidOn(t *testing.T) {
	code := &TaxCode{
		ID:            10,
		Code:          "GROCERY",
		Treatment:     TreatmentZeroRated,
		EffectiveDate: date(2000, 1, 1),
		ExpiryDate:    datePtr(2024, 12, 31),
	}
	assert.True(t, code.ValidOn(date(2000, 1, 1)), "effective date inclusive")
	assert.True(t, code.ValidOn(date(2024, 12, 31)), "expiry date inclusive")
	assert.False(t, code.ValidOn(date(1999, 12, 31)))
	assert.False(t, code.ValidOn(date(2025, 1, 1)))

	open := &TaxCode{Code: "STANDARD", EffectiveDate: date(2000, 1, 1)}
	assert.True(t, open.ValidOn(date(2099, 1, 1)), "nil expiry is open-ended")
}

func TestCustomerTaxProfile_QualifiesForExemption(t *testing.T) {
	profile := CustomerTaxProfile{
		CustomerID:    1,
		TaxStatus:     TaxStatusExempt,
		EffectiveDate: date(2020, 1, 1),
	}
	assert.True(t, profile.QualifiesForExemption(date(2020, 1, 1)))
	assert.True(t, profile.QualifiesForExemption(date(2023, 6, 1)))
	assert.False(t, profile.QualifiesForExemption(date(2019, 12, 31)), "exemption not yet effective")

	regular := CustomerTaxProfile{CustomerID: 2, TaxStatus: TaxStatusRegular, EffectiveDate: date(2020, 1, 1)}
	assert.False(t, regular.QualifiesForExemption(date(2023, 1, 1)))
}
