package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/clock"
	"github.com/maplebill/maplebill/internal/config"
	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	"github.com/maplebill/maplebill/internal/invoice/domain"
	"github.com/maplebill/maplebill/internal/money"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	BillingCfg *config.BillingConfigHolder
	Invoices   domain.Repository
	Customers  customerdomain.Repository
	Catalog    catalogdomain.Repository
	Provinces  provincedomain.Repository
	TaxEngine  taxdomain.Engine
	Factories  *FactoryRegistry
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	billingCfg *config.BillingConfigHolder
	invoices   domain.Repository
	customers  customerdomain.Repository
	catalog    catalogdomain.Repository
	provinces  provincedomain.Repository
	taxEngine  taxdomain.Engine
	factories  *FactoryRegistry
}

func New(p Params) domain.Manager {
	return &Service{
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		billingCfg: p.BillingCfg,
		invoices:   p.Invoices,
		customers:  p.Customers,
		catalog:    p.Catalog,
		provinces:  p.Provinces,
		taxEngine:  p.TaxEngine,
		factories:  p.Factories,
	}
}

// CreateInvoice builds a draft invoice for the customer, resolving place of
// supply from their billing address and numbering from the configured prefix.
func (s *Service) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	billing, err := customer.BillingAddress()
	if err != nil {
		return nil, err
	}
	placeOfSupply, err := s.provinces.FindByCode(ctx, billing.Province)
	if err != nil {
		return nil, err
	}

	cfg := s.billingCfg.Get()
	id := s.genID.Generate()
	invoiceDate := s.clock.Now()
	dueDate := invoiceDate.AddDate(0, 0, cfg.PaymentTermsDays)
	number := fmt.Sprintf("%s%d", cfg.InvoiceNumberPrefix, id)

	inv, err := domain.NewInvoice(id, number, customer, placeOfSupply, invoiceDate, dueDate)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		item, err := s.catalog.FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		li, err := s.factories.Build(item, line.Quantity)
		if err != nil {
			return nil, err
		}
		inv.AddLineItem(li)
	}

	if err := s.invoices.Insert(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.Int64("invoice_id", int64(inv.ID)),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int64("customer_id", int64(customer.ID)),
	)
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	return s.invoices.List(ctx, filter)
}

// mutate loads the aggregate, applies fn, and persists the result. The
// repository rejects the write when the aggregate changed underneath us.
func (s *Service) mutate(ctx context.Context, invoiceID snowflake.ID, fn func(*domain.Invoice) error) (*domain.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) AddLineItem(ctx context.Context, invoiceID, itemID snowflake.ID, quantity money.Decimal) (*domain.Invoice, error) {
	item, err := s.catalog.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	li, err := s.factories.Build(item, quantity)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.AddLineItem(li)
		return nil
	})
}

func (s *Service) RemoveLineItem(ctx context.Context, invoiceID snowflake.ID, index int) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.RemoveLineItemAt(index)
	})
}

func (s *Service) RemoveLineItemsForItem(ctx context.Context, invoiceID, itemID snowflake.ID) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		removed := inv.RemoveLineItemsForItem(itemID)
		s.log.Debug("removed line items for catalog item",
			zap.Int64("invoice_id", int64(invoiceID)),
			zap.Int64("item_id", int64(itemID)),
			zap.Int("removed", removed),
		)
		return nil
	})
}

func (s *Service) UpdateLineItemQuantity(ctx context.Context, invoiceID snowflake.ID, index int, quantity money.Decimal) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.UpdateLineItemQuantity(index, quantity)
	})
}

func (s *Service) MoveLineItemUp(ctx context.Context, invoiceID snowflake.ID, index int) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.MoveLineItemUp(index)
		return nil
	})
}

func (s *Service) MoveLineItemDown(ctx context.Context, invoiceID snowflake.ID, index int) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.MoveLineItemDown(index)
		return nil
	})
}

func (s *Service) MoveLineItemToPosition(ctx context.Context, invoiceID snowflake.ID, from, to int) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.MoveLineItemToPosition(from, to)
		return nil
	})
}

func (s *Service) AddDiscount(ctx context.Context, invoiceID snowflake.ID, discount domain.Discount) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.AddDiscount(discount)
	})
}

func (s *Service) AddLineItemDiscount(ctx context.Context, invoiceID snowflake.ID, index int, discount domain.Discount) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		if index < 0 || index >= len(inv.LineItems) {
			return fmt.Errorf("%w: index %d of %d", domain.ErrIndexOutOfRange, index, len(inv.LineItems))
		}
		updated, err := inv.LineItems[index].AddDiscount(discount)
		if err != nil {
			return err
		}
		inv.LineItems[index] = updated
		return nil
	})
}

func (s *Service) AddSurcharge(ctx context.Context, invoiceID snowflake.ID, surcharge *domain.Surcharge) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.AddSurcharge(surcharge)
	})
}

func (s *Service) AddShipping(ctx context.Context, invoiceID snowflake.ID, shipping domain.ShippingInfo) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.AddShipping(shipping)
		return nil
	})
}

func (s *Service) ApplyTaxes(ctx context.Context, invoiceID snowflake.ID) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.ApplyTaxes(ctx, s.taxEngine)
	})
}

func (s *Service) PostInvoice(ctx context.Context, invoiceID snowflake.ID) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.Post()
	})
}

func (s *Service) CancelInvoice(ctx context.Context, invoiceID snowflake.ID) (*domain.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		return inv.Cancel()
	})
}

func (s *Service) ProcessPayment(ctx context.Context, invoiceID snowflake.ID, req domain.PaymentRequest) (*domain.Invoice, error) {
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.clock.Now()
	}
	metadata := datatypes.JSONMap(req.Metadata)
	if metadata == nil {
		metadata = datatypes.JSONMap{}
	}
	payment := domain.Payment{
		ID:          s.genID.Generate(),
		InvoiceID:   invoiceID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
		Gateway:     req.Gateway,
		GatewayRef:  req.GatewayRef,
		Status:      domain.PaymentCompleted,
		Metadata:    metadata,
	}
	inv, err := s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		inv.ProcessPayment(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.invoices.InsertPayment(ctx, &payment); err != nil {
		return nil, err
	}
	s.log.Info("payment processed",
		zap.Int64("invoice_id", int64(invoiceID)),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("status", string(inv.Status)),
	)
	return inv, nil
}

// ProcessRefund validates the amount against the grand total, computes the
// proportional subtotal/tax/shipping breakdown, and hands the refund to the
// aggregate, which enforces the net-payments ceiling.
func (s *Service) ProcessRefund(ctx context.Context, invoiceID snowflake.ID, req domain.RefundRequest) (*domain.Invoice, error) {
	refundDate := req.RefundDate
	if refundDate.IsZero() {
		refundDate = s.clock.Now()
	}

	var refund domain.Refund
	inv, err := s.mutate(ctx, invoiceID, func(inv *domain.Invoice) error {
		grandTotal := inv.GrandTotal()
		if req.Amount.GreaterThan(grandTotal) {
			return fmt.Errorf("%w: refund %s exceeds invoice total %s",
				domain.ErrRefundExceedsTotal, req.Amount.StringFixed(2), grandTotal.StringFixed(2))
		}

		refund = domain.Refund{
			ID:               s.genID.Generate(),
			InvoiceID:        invoiceID,
			PaymentID:        req.PaymentID,
			Amount:           req.Amount,
			Reason:           req.Reason,
			RefundDate:       refundDate,
			IncludesShipping: req.IncludesShipping,
		}

		// Allocate the refund across subtotal, tax, and shipping in the
		// same proportion the amount bears to the grand total.
		if grandTotal.IsPositive() {
			proportion := req.Amount.Div(grandTotal)
			netSubtotal := inv.Subtotal().Sub(inv.DiscountAmount()).Add(inv.ShippingAmount())
			subtotalRefund := money.Round2(netSubtotal.Mul(proportion))
			taxRefund := money.Round2(inv.TaxAmount().Mul(proportion))
			shippingRefund := money.Zero()
			if req.IncludesShipping {
				shippingRefund = money.Round2(inv.ShippingAmount().Mul(proportion))
			}
			refund.SetBreakdown(subtotalRefund, taxRefund, shippingRefund)
		}

		return inv.ProcessRefund(refund)
	})
	if err != nil {
		return nil, err
	}
	if err := s.invoices.InsertRefund(ctx, &refund); err != nil {
		return nil, err
	}

	s.log.Info("refund processed",
		zap.Int64("invoice_id", int64(invoiceID)),
		zap.String("amount", refund.Amount.StringFixed(2)),
		zap.String("status", string(inv.Status)),
	)
	return inv, nil
}
