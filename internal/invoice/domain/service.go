package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/maplebill/maplebill/internal/money"
)

// Manager is the orchestration interface exposed to the API layer. Every
// operation loads the aggregate, delegates the mutation, and persists the
// result under the repository's optimistic-concurrency check.
type Manager interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	GetInvoice(ctx context.Context, id snowflake.ID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]Invoice, error)

	AddLineItem(ctx context.Context, invoiceID, itemID snowflake.ID, quantity money.Decimal) (*Invoice, error)
	RemoveLineItem(ctx context.Context, invoiceID snowflake.ID, index int) (*Invoice, error)
	RemoveLineItemsForItem(ctx context.Context, invoiceID, itemID snowflake.ID) (*Invoice, error)
	UpdateLineItemQuantity(ctx context.Context, invoiceID snowflake.ID, index int, quantity money.Decimal) (*Invoice, error)
	MoveLineItemUp(ctx context.Context, invoiceID snowflake.ID, index int) (*Invoice, error)
	MoveLineItemDown(ctx context.Context, invoiceID snowflake.ID, index int) (*Invoice, error)
	MoveLineItemToPosition(ctx context.Context, invoiceID snowflake.ID, from, to int) (*Invoice, error)

	AddDiscount(ctx context.Context, invoiceID snowflake.ID, discount Discount) (*Invoice, error)
	AddLineItemDiscount(ctx context.Context, invoiceID snowflake.ID, index int, discount Discount) (*Invoice, error)
	AddSurcharge(ctx context.Context, invoiceID snowflake.ID, surcharge *Surcharge) (*Invoice, error)
	AddShipping(ctx context.Context, invoiceID snowflake.ID, shipping ShippingInfo) (*Invoice, error)

	ApplyTaxes(ctx context.Context, invoiceID snowflake.ID) (*Invoice, error)
	PostInvoice(ctx context.Context, invoiceID snowflake.ID) (*Invoice, error)
	CancelInvoice(ctx context.Context, invoiceID snowflake.ID) (*Invoice, error)

	ProcessPayment(ctx context.Context, invoiceID snowflake.ID, req PaymentRequest) (*Invoice, error)
	ProcessRefund(ctx context.Context, invoiceID snowflake.ID, req RefundRequest) (*Invoice, error)
}

// CreateInvoiceRequest creates an invoice for a customer from catalog items.
type CreateInvoiceRequest struct {
	CustomerID snowflake.ID     `json:"customer_id"`
	Items      []CreateLineItem `json:"items"`
}

// CreateLineItem names a catalog item and quantity.
type CreateLineItem struct {
	ItemID   snowflake.ID  `json:"item_id"`
	Quantity money.Decimal `json:"quantity"`
}

// PaymentRequest records a payment received against an invoice.
type PaymentRequest struct {
	Amount      money.Decimal  `json:"amount"`
	PaymentDate time.Time      `json:"payment_date"`
	Notes       string         `json:"notes,omitempty"`
	Gateway     string         `json:"gateway,omitempty"`
	GatewayRef  string         `json:"gateway_ref,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RefundRequest asks for a refund against a prior payment. The manager
// computes the proportional subtotal/tax/shipping breakdown before the
// aggregate processes it.
type RefundRequest struct {
	PaymentID        snowflake.ID  `json:"payment_id"`
	Amount           money.Decimal `json:"amount"`
	Reason           string        `json:"reason,omitempty"`
	RefundDate       time.Time     `json:"refund_date"`
	IncludesShipping bool          `json:"includes_shipping"`
}
