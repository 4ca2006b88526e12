// Package seed loads the Canadian tax baseline on startup: the federal and
// provincial taxes with their historical rates, the thirteen provinces and
// territories, and the common tax classification codes. Seeding is idempotent
// and skips entirely when provinces already exist.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/maplebill/maplebill/internal/money"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

// EnsureCanadianTaxData seeds taxes, provinces, and tax codes when the
// database is empty.
func EnsureCanadianTaxData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var count int64
	if err := db.WithContext(ctx).Model(&provincedomain.Province{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taxes, err := seedTaxes(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := seedProvinces(ctx, tx, node, taxes); err != nil {
			return err
		}
		return seedTaxCodes(ctx, tx, node)
	})
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y, m, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func rate(s string) money.Decimal {
	return money.MustFromString(s)
}

func seedTaxes(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]*taxdomain.Tax, error) {
	gst := &taxdomain.Tax{ID: node.Generate(), Name: "Goods and Services Tax", Code: "GST", IsGstHst: true}
	gst.AddRate(rate("0.07"), date(1991, 1, 1), datePtr(2006, 7, 1)).
		AddRate(rate("0.06"), date(2006, 7, 1), datePtr(2008, 1, 1)).
		AddRate(rate("0.05"), date(2008, 1, 1), nil)

	bcPst := &taxdomain.Tax{ID: node.Generate(), Name: "British Columbia Provincial Sales Tax", Code: "BC-PST"}
	bcPst.AddRate(rate("0.07"), date(2013, 4, 1), nil)

	mbRst := &taxdomain.Tax{ID: node.Generate(), Name: "Manitoba Retail Sales Tax", Code: "MB-RST"}
	mbRst.AddRate(rate("0.07"), date(2019, 7, 1), nil)

	nbHst := &taxdomain.Tax{ID: node.Generate(), Name: "New Brunswick Harmonized Sales Tax", Code: "NB-HST", IsGstHst: true}
	nbHst.AddRate(rate("0.15"), date(2016, 7, 1), nil)

	nlHst := &taxdomain.Tax{ID: node.Generate(), Name: "Newfoundland and Labrador Harmonized Sales Tax", Code: "NL-HST", IsGstHst: true}
	nlHst.AddRate(rate("0.15"), date(2016, 7, 1), nil)

	nsHst := &taxdomain.Tax{ID: node.Generate(), Name: "Nova Scotia Harmonized Sales Tax", Code: "NS-HST", IsGstHst: true}
	nsHst.AddRate(rate("0.15"), date(2010, 7, 1), datePtr(2025, 4, 1)).
		AddRate(rate("0.14"), date(2025, 4, 1), nil)

	onHst := &taxdomain.Tax{ID: node.Generate(), Name: "Ontario Harmonized Sales Tax", Code: "ON-HST", IsGstHst: true}
	onHst.AddRate(rate("0.13"), date(2010, 7, 1), nil)

	peHst := &taxdomain.Tax{ID: node.Generate(), Name: "Prince Edward Island Harmonized Sales Tax", Code: "PE-HST", IsGstHst: true}
	peHst.AddRate(rate("0.15"), date(2016, 10, 1), nil)

	qcQst := &taxdomain.Tax{ID: node.Generate(), Name: "Quebec Sales Tax", Code: "QC-QST"}
	qcQst.AddRate(rate("0.09975"), date(2013, 1, 1), nil)

	skPst := &taxdomain.Tax{ID: node.Generate(), Name: "Saskatchewan Provincial Sales Tax", Code: "SK-PST"}
	skPst.AddRate(rate("0.06"), date(2017, 3, 23), nil)

	taxes := map[string]*taxdomain.Tax{
		"GST": gst, "BC-PST": bcPst, "MB-RST": mbRst, "NB-HST": nbHst,
		"NL-HST": nlHst, "NS-HST": nsHst, "ON-HST": onHst, "PE-HST": peHst,
		"QC-QST": qcQst, "SK-PST": skPst,
	}
	for _, t := range taxes {
		if err := tx.WithContext(ctx).Create(t).Error; err != nil {
			return nil, err
		}
	}
	return taxes, nil
}

// provinceTaxes maps each province to its tax codes. HST provinces carry the
// harmonized tax alone; the rest stack GST with their provincial tax, and the
// territories plus Alberta charge GST only.
var provinceTaxes = []struct {
	name  string
	code  string
	taxes []string
}{
	{"Alberta", "AB", []string{"GST"}},
	{"British Columbia", "BC", []string{"GST", "BC-PST"}},
	{"Manitoba", "MB", []string{"GST", "MB-RST"}},
	{"New Brunswick", "NB", []string{"NB-HST"}},
	{"Newfoundland and Labrador", "NL", []string{"NL-HST"}},
	{"Northwest Territories", "NT", []string{"GST"}},
	{"Nova Scotia", "NS", []string{"NS-HST"}},
	{"Nunavut", "NU", []string{"GST"}},
	{"Ontario", "ON", []string{"ON-HST"}},
	{"Prince Edward Island", "PE", []string{"PE-HST"}},
	{"Quebec", "QC", []string{"GST", "QC-QST"}},
	{"Saskatchewan", "SK", []string{"GST", "SK-PST"}},
	{"Yukon", "YT", []string{"GST"}},
}

func seedProvinces(ctx context.Context, tx *gorm.DB, node *snowflake.Node, taxes map[string]*taxdomain.Tax) error {
	for _, p := range provinceTaxes {
		attached := make([]taxdomain.Tax, 0, len(p.taxes))
		for _, code := range p.taxes {
			attached = append(attached, *taxes[code])
		}
		province, err := provincedomain.New(node.Generate(), p.name, p.code, attached)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(province).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTaxCodes(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	codes := []taxdomain.TaxCode{
		{ID: node.Generate(), Code: "STANDARD", Description: "Standard taxable supply", Treatment: taxdomain.TreatmentStandard, EffectiveDate: date(1991, 1, 1)},
		{ID: node.Generate(), Code: "GROCERY", Description: "Basic groceries", Treatment: taxdomain.TreatmentZeroRated, EffectiveDate: date(1991, 1, 1)},
		{ID: node.Generate(), Code: "RX", Description: "Prescription drugs", Treatment: taxdomain.TreatmentZeroRated, EffectiveDate: date(1991, 1, 1)},
		{ID: node.Generate(), Code: "MEDICAL", Description: "Medical devices", Treatment: taxdomain.TreatmentZeroRated, EffectiveDate: date(1991, 1, 1)},
		{ID: node.Generate(), Code: "EXEMPT", Description: "Exempt supply", Treatment: taxdomain.TreatmentExempt, EffectiveDate: date(1991, 1, 1)},
		{ID: node.Generate(), Code: "OOS", Description: "Out of scope", Treatment: taxdomain.TreatmentOutOfScope, EffectiveDate: date(1991, 1, 1)},
	}
	for i := range codes {
		if err := tx.WithContext(ctx).Create(&codes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
