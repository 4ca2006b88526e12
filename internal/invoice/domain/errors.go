package domain

import "errors"

var (
	ErrNotFound = errors.New("not_found")

	// Validation failures.
	ErrInvalidQuantity      = errors.New("quantity_out_of_range")
	ErrInvalidDiscountScope = errors.New("invalid_discount_scope")
	ErrNilSurcharge         = errors.New("surcharge_required")
	ErrNilShipping          = errors.New("shipping_required")
	ErrInvalidShipping      = errors.New("invalid_shipping")
	ErrIndexOutOfRange      = errors.New("line_item_index_out_of_range")

	// State-machine violations.
	ErrCannotPostInvoice   = errors.New("cannot_post_invoice")
	ErrCannotCancelInvoice = errors.New("cannot_cancel_invoice")
	ErrInvalidRefundAmount = errors.New("invalid_refund_amount")
	ErrRefundExceedsTotal  = errors.New("refund_exceeds_invoice_total")

	// Persistence-level conflict surfaced by the repository when a stale
	// aggregate version is written back.
	ErrStaleInvoice = errors.New("stale_invoice_version")
)
