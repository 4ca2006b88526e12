package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	"github.com/maplebill/maplebill/internal/money"
	provincedomain "github.com/maplebill/maplebill/internal/province/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPending           Status = "pending"
	StatusPosted            Status = "posted"
	StatusPaid              Status = "paid"
	StatusOverdue           Status = "overdue"
	StatusPartiallyRefunded Status = "partially_refunded"
	StatusRefunded          Status = "refunded"
	StatusCancelled         Status = "cancelled"
)

// Invoice is the aggregate root. All structural changes go through methods,
// never through direct collection writes, so sort-order and total invariants
// hold after every mutation. Invoices are never hard-deleted; cancellation is
// a status transition.
type Invoice struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string       `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	InvoiceDate     time.Time    `gorm:"not null" json:"invoice_date"`
	DueDate         time.Time    `gorm:"not null" json:"due_date"`
	Status          Status       `gorm:"type:text;not null;default:'draft'" json:"status"`
	ReferenceNumber string       `gorm:"type:text" json:"reference_number,omitempty"`
	CustomerID      snowflake.ID `gorm:"not null;index" json:"customer_id"`
	PlaceOfSupplyID snowflake.ID `gorm:"not null;index" json:"place_of_supply_id"`

	// Address snapshots taken at creation; later customer edits do not
	// alter posted invoices.
	BillingAddress  AddressColumn `gorm:"type:jsonb;not null;default:'{}'" json:"billing_address"`
	ShippingAddress AddressColumn `gorm:"type:jsonb;not null;default:'{}'" json:"shipping_address"`

	Shipping   ShippingColumn    `gorm:"type:jsonb;not null;default:'{}'" json:"shipping"`
	LineItems  LineItems         `gorm:"type:jsonb;not null;default:'[]'" json:"line_items"`
	Discounts  AppliedDiscounts  `gorm:"type:jsonb;not null;default:'[]'" json:"discounts"`
	Surcharges AppliedSurcharges `gorm:"type:jsonb;not null;default:'[]'" json:"surcharges"`
	Payments   AppliedPayments   `gorm:"type:jsonb;not null;default:'[]'" json:"payments"`
	Refunds    AppliedRefunds    `gorm:"type:jsonb;not null;default:'[]'" json:"refunds"`

	// Version backs optimistic concurrency in the repository; concurrent
	// edits to one invoice are serialized there, not here.
	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// NewInvoice builds a draft invoice, snapshotting the customer's billing and
// shipping addresses as of now.
func NewInvoice(id snowflake.ID, number string, customer *customerdomain.Customer, placeOfSupply *provincedomain.Province, invoiceDate, dueDate time.Time) (*Invoice, error) {
	billing, err := customer.BillingAddress()
	if err != nil {
		return nil, err
	}
	shipping, err := customer.ShippingAddress()
	if err != nil {
		// A missing shipping address is tolerable; billing is not.
		shipping = customerdomain.Address{}
	}
	return &Invoice{
		ID:              id,
		InvoiceNumber:   number,
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		Status:          StatusDraft,
		CustomerID:      customer.ID,
		PlaceOfSupplyID: placeOfSupply.ID,
		BillingAddress:  AddressColumn(billing),
		ShippingAddress: AddressColumn(shipping),
		Shipping:        ShippingColumn(EmptyShipping()),
	}, nil
}

// --- line item mutations ---

// AddLineItem appends the item with sort order max+1 (0 when empty).
func (inv *Invoice) AddLineItem(item LineItem) {
	next := 0
	for _, li := range inv.LineItems {
		if li.SortOrder >= next {
			next = li.SortOrder + 1
		}
	}
	inv.LineItems = append(inv.LineItems, item.SetSortOrder(next))
}

// RemoveLineItemAt removes by position. Fails loud on a bad index.
func (inv *Invoice) RemoveLineItemAt(index int) error {
	if index < 0 || index >= len(inv.LineItems) {
		return fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, index, len(inv.LineItems))
	}
	inv.LineItems = append(inv.LineItems[:index], inv.LineItems[index+1:]...)
	inv.renumber()
	return nil
}

// RemoveLineItem removes the first line item structurally equal to the given
// value. Removing a value that is not present is a no-op.
func (inv *Invoice) RemoveLineItem(item LineItem) {
	for i, li := range inv.LineItems {
		if li.Equal(item) {
			inv.LineItems = append(inv.LineItems[:i], inv.LineItems[i+1:]...)
			inv.renumber()
			return
		}
	}
}

// RemoveLineItemsForItem removes every line item referencing the catalog
// item, returning how many were removed.
func (inv *Invoice) RemoveLineItemsForItem(itemID snowflake.ID) int {
	kept := inv.LineItems[:0]
	removed := 0
	for _, li := range inv.LineItems {
		if li.Item.ItemID == itemID {
			removed++
			continue
		}
		kept = append(kept, li)
	}
	if removed > 0 {
		inv.LineItems = kept
		inv.renumber()
	}
	return removed
}

// UpdateLineItemQuantity replaces the line item at index with a copy carrying
// the new quantity. Fails loud on a bad index or negative quantity.
func (inv *Invoice) UpdateLineItemQuantity(index int, quantity money.Decimal) error {
	if index < 0 || index >= len(inv.LineItems) {
		return fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, index, len(inv.LineItems))
	}
	updated, err := inv.LineItems[index].SetQuantity(quantity)
	if err != nil {
		return err
	}
	inv.LineItems[index] = updated
	return nil
}

// MoveLineItemUp swaps the item with its predecessor. Boundary and invalid
// indices no-op silently; reordering is UI-driven and forgiving.
func (inv *Invoice) MoveLineItemUp(index int) {
	if index <= 0 || index >= len(inv.LineItems) {
		return
	}
	inv.LineItems[index-1], inv.LineItems[index] = inv.LineItems[index], inv.LineItems[index-1]
	inv.renumber()
}

// MoveLineItemDown swaps the item with its successor. Silent no-op on
// boundary or invalid indices.
func (inv *Invoice) MoveLineItemDown(index int) {
	if index < 0 || index >= len(inv.LineItems)-1 {
		return
	}
	inv.LineItems[index], inv.LineItems[index+1] = inv.LineItems[index+1], inv.LineItems[index]
	inv.renumber()
}

// MoveLineItemToPosition moves an item to a target position, shifting the
// rest. Silent no-op on any invalid index or from==to.
func (inv *Invoice) MoveLineItemToPosition(from, to int) {
	n := len(inv.LineItems)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	item := inv.LineItems[from]
	rest := append(inv.LineItems[:from], inv.LineItems[from+1:]...)
	inv.LineItems = append(rest[:to], append(LineItems{item}, rest[to:]...)...)
	inv.renumber()
}

// OrderedLineItems returns the items sorted by sort order.
func (inv *Invoice) OrderedLineItems() []LineItem {
	out := make([]LineItem, len(inv.LineItems))
	copy(out, inv.LineItems)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].SortOrder < out[j-1].SortOrder; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// renumber restores the dense 0..n-1 sort-order invariant.
func (inv *Invoice) renumber() {
	for i := range inv.LineItems {
		inv.LineItems[i] = inv.LineItems[i].SetSortOrder(i)
	}
}

// --- discounts, surcharges, shipping ---

// AddDiscount attaches an order-level discount. Line-item scopes must attach
// to a line item instead.
func (inv *Invoice) AddDiscount(d Discount) error {
	if d.Scope != ScopePerOrder {
		return fmt.Errorf("%w: %s discounts attach to a line item", ErrInvalidDiscountScope, d.Scope)
	}
	inv.Discounts = append(inv.Discounts, AppliedDiscount{
		ID:          d.ID,
		Name:        d.Name,
		FixedAmount: d.FixedAmount,
		Percentage:  d.Percentage,
	})
	return nil
}

// AddSurcharge attaches a surcharge snapshot.
func (inv *Invoice) AddSurcharge(s *Surcharge) error {
	if s == nil {
		return ErrNilSurcharge
	}
	inv.Surcharges = append(inv.Surcharges, AppliedSurcharge{
		ID:           s.ID,
		Name:         s.Name,
		FixedAmount:  s.FixedAmount,
		Rate:         s.Rate,
		TaxTreatment: s.TaxTreatment,
	})
	return nil
}

// AddShipping sets the shipping info.
func (inv *Invoice) AddShipping(s ShippingInfo) {
	inv.Shipping = ShippingColumn(s)
}

// --- taxes ---

// ApplyTaxes resolves the customer's tax profile and re-applies per-item tax
// rates to every line item. Totals computed before this call report zero tax.
func (inv *Invoice) ApplyTaxes(ctx context.Context, engine taxdomain.Engine) error {
	profile, err := engine.GetTaxProfile(ctx, inv.CustomerID, inv.InvoiceDate)
	if err != nil {
		return err
	}
	for i, li := range inv.LineItems {
		rates, err := engine.GetTaxesForItem(ctx, li.Item.TaxCode, profile, inv.InvoiceDate)
		if err != nil {
			return err
		}
		inv.LineItems[i] = li.ApplyTaxes(rates)
	}
	return nil
}

// --- payments and refunds ---

// ProcessPayment appends a payment snapshot and re-evaluates status as of
// the payment date.
func (inv *Invoice) ProcessPayment(p Payment) {
	inv.Payments = append(inv.Payments, AppliedPayment{PaymentID: p.ID, Amount: p.Amount})
	inv.UpdateStatus(p.PaymentDate)
}

// ProcessRefund appends a refund snapshot after checking it does not exceed
// the net amount still held, then re-evaluates status as of the refund date.
func (inv *Invoice) ProcessRefund(r Refund) error {
	held := inv.TotalPaid().Sub(inv.TotalRefunded())
	if r.Amount.GreaterThan(held) {
		return fmt.Errorf("%w: refund %s exceeds net payments received %s",
			ErrInvalidRefundAmount, r.Amount.StringFixed(2), held.StringFixed(2))
	}
	inv.Refunds = append(inv.Refunds, AppliedRefund{
		RefundID:       r.ID,
		PaymentID:      r.PaymentID,
		Amount:         r.Amount,
		SubtotalRefund: r.SubtotalRefund,
		TaxRefund:      r.TaxRefund,
		ShippingRefund: r.ShippingRefund,
	})
	inv.UpdateStatus(r.RefundDate)
	return nil
}

// --- state machine ---

// Post transitions Draft or Pending to Posted. Posting an empty invoice
// fails; posting from any other state is a no-op.
func (inv *Invoice) Post() error {
	if len(inv.LineItems) == 0 {
		return fmt.Errorf("%w: invoice has no line items", ErrCannotPostInvoice)
	}
	if inv.Status == StatusDraft || inv.Status == StatusPending {
		inv.Status = StatusPosted
	}
	return nil
}

// Cancel transitions to Cancelled, allowed only while nothing has been paid.
func (inv *Invoice) Cancel() error {
	if inv.Status != StatusPaid && inv.TotalPaid().IsZero() {
		inv.Status = StatusCancelled
		return nil
	}
	return fmt.Errorf("%w: invoice has payments applied: %s",
		ErrCannotCancelInvoice, inv.TotalPaid().StringFixed(2))
}

// UpdateStatus re-evaluates the status from monetary balances. The checks run
// in strict priority order; the first match wins.
func (inv *Invoice) UpdateStatus(effectiveDate time.Time) {
	balance := inv.Balance()
	refunded := inv.TotalRefunded()
	total := inv.GrandTotal()

	switch {
	case refunded.GreaterThanOrEqual(total):
		inv.Status = StatusRefunded
	case refunded.IsPositive():
		inv.Status = StatusPartiallyRefunded
	case balance.LessThanOrEqual(money.Zero()):
		inv.Status = StatusPaid
	case effectiveDate.After(inv.DueDate):
		inv.Status = StatusOverdue
	case inv.Status == StatusDraft:
		inv.Status = StatusPending
	}
}

// --- derived totals: pure functions of current state ---

// Subtotal sums line item subtotals before discounts and taxes.
func (inv *Invoice) Subtotal() money.Decimal {
	total := money.Zero()
	for _, li := range inv.LineItems {
		total = total.Add(li.Subtotal())
	}
	return total
}

// LineItemDiscount sums the per-line-item discount amounts.
func (inv *Invoice) LineItemDiscount() money.Decimal {
	total := money.Zero()
	for _, li := range inv.LineItems {
		total = total.Add(li.Discount())
	}
	return total
}

// OrderDiscount sums the order-level discounts, each computed against the
// subtotal net of line-item discounts.
func (inv *Invoice) OrderDiscount() money.Decimal {
	eligible := inv.Subtotal().Sub(inv.LineItemDiscount())
	total := money.Zero()
	for _, d := range inv.Discounts {
		total = total.Add(d.Amount(eligible))
	}
	return total
}

// DiscountAmount combines line-item and order-level discounts.
func (inv *Invoice) DiscountAmount() money.Decimal {
	return inv.LineItemDiscount().Add(inv.OrderDiscount())
}

// DiscountedSubtotal is the subtotal after all discounts.
func (inv *Invoice) DiscountedSubtotal() money.Decimal {
	return inv.Subtotal().Sub(inv.DiscountAmount())
}

// ShippingAmount is the shipping cost.
func (inv *Invoice) ShippingAmount() money.Decimal {
	return inv.Shipping.Cost
}

// SurchargeAmount sums surcharges computed against the discounted subtotal
// plus shipping.
func (inv *Invoice) SurchargeAmount() money.Decimal {
	base := inv.DiscountedSubtotal().Add(inv.ShippingAmount())
	total := money.Zero()
	for _, s := range inv.Surcharges {
		total = total.Add(s.Amount(base))
	}
	return total
}

// TaxAmount sums line-item taxes. Taxable surcharges are not yet folded in;
// AppliedSurcharge.TaxTreatment is carried for reporting only.
func (inv *Invoice) TaxAmount() money.Decimal {
	total := money.Zero()
	for _, li := range inv.LineItems {
		total = total.Add(li.TaxAmount())
	}
	return total
}

// TotalAmount is the pre-tax total: subtotal - discounts + surcharges +
// shipping.
func (inv *Invoice) TotalAmount() money.Decimal {
	return inv.Subtotal().Sub(inv.DiscountAmount()).Add(inv.SurchargeAmount()).Add(inv.ShippingAmount())
}

// GrandTotal is the final amount due: TotalAmount + TaxAmount, always.
func (inv *Invoice) GrandTotal() money.Decimal {
	return inv.TotalAmount().Add(inv.TaxAmount())
}

// TotalPaid sums applied payments.
func (inv *Invoice) TotalPaid() money.Decimal {
	total := money.Zero()
	for _, p := range inv.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalRefunded sums applied refunds.
func (inv *Invoice) TotalRefunded() money.Decimal {
	total := money.Zero()
	for _, r := range inv.Refunds {
		total = total.Add(r.Amount)
	}
	return total
}

// Balance is the outstanding amount: grand total - paid + refunded.
func (inv *Invoice) Balance() money.Decimal {
	return inv.GrandTotal().Sub(inv.TotalPaid()).Add(inv.TotalRefunded())
}
