package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/maplebill/maplebill/internal/cache"
	"github.com/maplebill/maplebill/internal/catalog"
	"github.com/maplebill/maplebill/internal/clock"
	"github.com/maplebill/maplebill/internal/config"
	"github.com/maplebill/maplebill/internal/customer"
	"github.com/maplebill/maplebill/internal/invoice"
	"github.com/maplebill/maplebill/internal/migration"
	"github.com/maplebill/maplebill/internal/observability"
	"github.com/maplebill/maplebill/internal/providers/pdf"
	"github.com/maplebill/maplebill/internal/province"
	"github.com/maplebill/maplebill/internal/server"
	"github.com/maplebill/maplebill/internal/tax"
	"github.com/maplebill/maplebill/pkg/db"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		cache.Module,
		migration.Module,

		tax.Module,
		province.Module,
		customer.Module,
		catalog.Module,
		invoice.Module,
		pdf.Module,

		server.Module,
	).Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
