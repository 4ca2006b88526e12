package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, item *Item) error
	// FindByID returns ErrNotFound when the item does not exist; callers
	// never receive a silent nil.
	FindByID(ctx context.Context, id snowflake.ID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
}
