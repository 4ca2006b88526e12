package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maplebill/maplebill/internal/tax/domain"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindTaxByCode(ctx context.Context, code string) (*domain.Tax, error) {
	var t domain.Tax
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) ListTaxes(ctx context.Context) ([]domain.Tax, error) {
	var taxes []domain.Tax
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&taxes).Error
	if err != nil {
		return nil, err
	}
	return taxes, nil
}

// FindTaxCode returns nil without error on a miss; the caller treats an
// unknown code as standard treatment.
func (r *repo) FindTaxCode(ctx context.Context, code string) (*domain.TaxCode, error) {
	var tc domain.TaxCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&tc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tc, nil
}
