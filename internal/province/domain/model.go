// Package domain models Canadian provinces and territories as tax
// jurisdictions.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidCode = errors.New("invalid_province_code")
)

// Province is a place-of-supply jurisdiction. Code is the 2-letter postal
// abbreviation; equality and ordering are case-insensitive on the code.
type Province struct {
	ID    snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name  string          `gorm:"type:text;not null" json:"name"`
	Code  string          `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Taxes []taxdomain.Tax `gorm:"many2many:province_taxes" json:"taxes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Province) TableName() string { return "provinces" }

// New validates and normalizes a province. Codes are stored upper-cased.
func New(id snowflake.ID, name, code string, taxes []taxdomain.Tax) (*Province, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return nil, ErrInvalidCode
	}
	return &Province{
		ID:    id,
		Name:  strings.TrimSpace(name),
		Code:  code,
		Taxes: taxes,
	}, nil
}

// Equal compares provinces by code, case-insensitively.
func (p *Province) Equal(other *Province) bool {
	if other == nil {
		return false
	}
	return strings.EqualFold(p.Code, other.Code)
}

// Compare orders provinces by name, then code, case-insensitively.
func (p *Province) Compare(other *Province) int {
	if other == nil {
		return 1
	}
	if c := strings.Compare(strings.ToLower(p.Name), strings.ToLower(other.Name)); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(p.Code), strings.ToLower(other.Code))
}

func (p *Province) String() string { return p.Code }

// Repository loads provinces with their taxes.
type Repository interface {
	Insert(ctx context.Context, province *Province) error
	// FindByID loads the province including its taxes, or ErrNotFound.
	FindByID(ctx context.Context, id snowflake.ID) (*Province, error)
	// FindByCode matches case-insensitively, or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*Province, error)
	List(ctx context.Context) ([]Province, error)
	Count(ctx context.Context) (int64, error)
}
