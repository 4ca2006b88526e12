package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, customer *Customer) error
	// FindByID returns ErrNotFound when the customer does not exist.
	FindByID(ctx context.Context, id snowflake.ID) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}
