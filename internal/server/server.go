package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/config"
	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	invoicedomain "github.com/maplebill/maplebill/internal/invoice/domain"
	"github.com/maplebill/maplebill/internal/observability"
	obslogger "github.com/maplebill/maplebill/internal/observability/logger"
	obsmetrics "github.com/maplebill/maplebill/internal/observability/metrics"
	obstracing "github.com/maplebill/maplebill/internal/observability/tracing"
	"github.com/maplebill/maplebill/internal/providers/pdf"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{Debug: obsCfg.Debug()}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	genID      *snowflake.Node
	billingCfg *config.BillingConfigHolder
	rdb        *redis.Client

	invoiceSvc invoicedomain.Manager
	customers  customerdomain.Repository
	catalog    catalogdomain.Repository
	provinces  provincedomain.Repository
	taxes      taxdomain.Repository
	taxEngine  taxdomain.Engine
	pdf        pdf.Renderer
}

type ServerParams struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	BillingCfg *config.BillingConfigHolder
	Redis      *redis.Client

	InvoiceSvc invoicedomain.Manager
	Customers  customerdomain.Repository
	Catalog    catalogdomain.Repository
	Provinces  provincedomain.Repository
	Taxes      taxdomain.Repository
	TaxEngine  taxdomain.Engine
	PDF        pdf.Renderer
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		genID:      p.GenID,
		billingCfg: p.BillingCfg,
		rdb:        p.Redis,
		invoiceSvc: p.InvoiceSvc,
		customers:  p.Customers,
		catalog:    p.Catalog,
		provinces:  p.Provinces,
		taxes:      p.Taxes,
		taxEngine:  p.TaxEngine,
		pdf:        p.PDF,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api/v1")

	api.GET("/provinces", s.ListProvinces)
	api.GET("/provinces/:code", s.GetProvince)
	api.GET("/provinces/:code/taxes", s.GetProvinceTaxes)
	api.GET("/taxes", s.ListTaxes)

	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers", s.ListCustomers)
	api.GET("/customers/:id", s.GetCustomer)

	api.POST("/items", s.CreateItem)
	api.GET("/items", s.ListItems)
	api.GET("/items/:id", s.GetItem)

	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.GET("/invoices/:id/pdf", s.GetInvoicePDF)

	api.POST("/invoices/:id/line-items", s.AddLineItem)
	api.DELETE("/invoices/:id/line-items/:index", s.RemoveLineItem)
	api.DELETE("/invoices/:id/items/:itemId", s.RemoveLineItemsForItem)
	api.PUT("/invoices/:id/line-items/:index/quantity", s.UpdateLineItemQuantity)
	api.POST("/invoices/:id/line-items/:index/move-up", s.MoveLineItemUp)
	api.POST("/invoices/:id/line-items/:index/move-down", s.MoveLineItemDown)
	api.POST("/invoices/:id/line-items/:index/move", s.MoveLineItemToPosition)
	api.POST("/invoices/:id/line-items/:index/discounts", s.AddLineItemDiscount)

	api.POST("/invoices/:id/discounts", s.AddDiscount)
	api.POST("/invoices/:id/surcharges", s.AddSurcharge)
	api.PUT("/invoices/:id/shipping", s.AddShipping)

	api.POST("/invoices/:id/apply-taxes", s.ApplyTaxes)
	api.POST("/invoices/:id/post", s.PostInvoice)
	api.POST("/invoices/:id/cancel", s.CancelInvoice)

	idem := IdempotencyMiddleware(s.rdb, s.log)
	api.POST("/invoices/:id/payments", idem, s.ProcessPayment)
	api.POST("/invoices/:id/refunds", idem, s.ProcessRefund)
}
