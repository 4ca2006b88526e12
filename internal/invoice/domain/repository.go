package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists the aggregate. Update performs a compare-and-swap on
// Version and returns ErrStaleInvoice when the loaded aggregate has been
// written by someone else in the meantime.
type Repository interface {
	Insert(ctx context.Context, invoice *Invoice) error
	// FindByID returns ErrNotFound when the invoice does not exist.
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)

	// Payments and refunds are persisted in full; the aggregate keeps only
	// monetary snapshots, the rows keep gateway metadata.
	InsertPayment(ctx context.Context, payment *Payment) error
	InsertRefund(ctx context.Context, refund *Refund) error
}

// ListFilter narrows List results.
type ListFilter struct {
	CustomerID *snowflake.ID
	Status     *Status
}
