package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/maplebill/maplebill/internal/invoice/domain"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update writes the whole aggregate row guarded by the version the caller
// loaded. A zero-row update means someone else wrote first.
func (r *repo) Update(ctx context.Context, invoice *domain.Invoice) error {
	loaded := invoice.Version
	invoice.Version = loaded + 1

	res := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, loaded).
		Select("*").
		Omit("id", "created_at").
		Updates(invoice)
	if res.Error != nil {
		invoice.Version = loaded
		return res.Error
	}
	if res.RowsAffected == 0 {
		invoice.Version = loaded
		return domain.ErrStaleInvoice
	}
	return nil
}

func (r *repo) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repo) InsertRefund(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *repo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Invoice, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}

	var invoices []domain.Invoice
	err := stmt.Order("invoice_date DESC, id DESC").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
