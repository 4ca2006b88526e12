package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/maplebill/maplebill/internal/money"
)

// PaymentStatus tracks gateway completion.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a payment received against an invoice.
type Payment struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	Amount      money.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentDate time.Time     `gorm:"not null" json:"payment_date"`
	Notes       string        `gorm:"type:text" json:"notes,omitempty"`
	Gateway     string        `gorm:"type:text" json:"gateway,omitempty"`
	GatewayRef  string        `gorm:"type:text" json:"gateway_ref,omitempty"`
	Status      PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	// Metadata carries gateway response fields we never interpret.
	Metadata datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// AppliedPayment is the payment snapshot the aggregate keeps.
type AppliedPayment struct {
	PaymentID snowflake.ID  `json:"payment_id"`
	Amount    money.Decimal `json:"amount"`
}

// Refund is a refund request against a payment. The subtotal/tax/shipping
// breakdown is computed by the manager before the aggregate processes it.
type Refund struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID        snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	PaymentID        snowflake.ID  `gorm:"not null;index" json:"payment_id"`
	Amount           money.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reason           string        `gorm:"type:text" json:"reason,omitempty"`
	RefundDate       time.Time     `gorm:"not null" json:"refund_date"`
	IncludesShipping bool          `gorm:"not null;default:false" json:"includes_shipping"`

	SubtotalRefund money.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"subtotal_refund"`
	TaxRefund      money.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax_refund"`
	ShippingRefund money.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"shipping_refund"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Refund) TableName() string { return "refunds" }

// SetBreakdown records the proportional amounts computed by the manager.
func (r *Refund) SetBreakdown(subtotal, tax, shipping money.Decimal) {
	r.SubtotalRefund = subtotal
	r.TaxRefund = tax
	r.ShippingRefund = shipping
}

// AppliedRefund is the refund snapshot the aggregate keeps.
type AppliedRefund struct {
	RefundID       snowflake.ID  `json:"refund_id"`
	PaymentID      snowflake.ID  `json:"payment_id"`
	Amount         money.Decimal `json:"amount"`
	SubtotalRefund money.Decimal `json:"subtotal_refund"`
	TaxRefund      money.Decimal `json:"tax_refund"`
	ShippingRefund money.Decimal `json:"shipping_refund"`
}
