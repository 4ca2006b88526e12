package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/maplebill/maplebill/internal/province/domain"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, province *domain.Province) error {
	return r.db.WithContext(ctx).Create(province).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Province, error) {
	var p domain.Province
	err := r.db.WithContext(ctx).
		Preload("Taxes").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Province, error) {
	var p domain.Province
	err := r.db.WithContext(ctx).
		Preload("Taxes").
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Province, error) {
	var provinces []domain.Province
	err := r.db.WithContext(ctx).
		Preload("Taxes").
		Order("code ASC").
		Find(&provinces).Error
	if err != nil {
		return nil, err
	}
	return provinces, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Province{}).Count(&n).Error
	return n, err
}
