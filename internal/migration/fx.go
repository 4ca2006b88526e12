package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/config"
	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	invoicedomain "github.com/maplebill/maplebill/internal/invoice/domain"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	"github.com/maplebill/maplebill/internal/seed"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres dialects (local sqlite, mysql) build the schema
			// from the models directly.
			if err := conn.AutoMigrate(
				&taxdomain.Tax{},
				&taxdomain.TaxCode{},
				&provincedomain.Province{},
				&customerdomain.Customer{},
				&catalogdomain.Item{},
				&invoicedomain.Discount{},
				&invoicedomain.Surcharge{},
				&invoicedomain.Invoice{},
				&invoicedomain.Payment{},
				&invoicedomain.Refund{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureCanadianTaxData(conn)
	}),
)
