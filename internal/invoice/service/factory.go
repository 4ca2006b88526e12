package service

import (
	"fmt"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/invoice/domain"
	"github.com/maplebill/maplebill/internal/money"
)

// LineItemFactory builds a line item from a catalog item of one variant.
// Factories are registered explicitly per item type; an unregistered type is
// a configuration error surfaced at call time, not silently priced at zero.
type LineItemFactory func(item *catalogdomain.Item, quantity money.Decimal) (domain.LineItem, error)

// FactoryRegistry maps catalog item types to their line-item factories.
type FactoryRegistry struct {
	factories map[catalogdomain.ItemType]LineItemFactory
}

// NewFactoryRegistry registers the built-in product and service factories.
func NewFactoryRegistry() *FactoryRegistry {
	r := &FactoryRegistry{factories: make(map[catalogdomain.ItemType]LineItemFactory)}
	r.Register(catalogdomain.ItemTypeProduct, newProductLineItem)
	r.Register(catalogdomain.ItemTypeService, newServiceLineItem)
	return r
}

// Register adds or replaces the factory for an item type.
func (r *FactoryRegistry) Register(t catalogdomain.ItemType, f LineItemFactory) {
	r.factories[t] = f
}

// Build dispatches to the factory registered for the item's type.
func (r *FactoryRegistry) Build(item *catalogdomain.Item, quantity money.Decimal) (domain.LineItem, error) {
	f, ok := r.factories[item.Type]
	if !ok {
		return domain.LineItem{}, fmt.Errorf("%w: %q", catalogdomain.ErrUnknownItemType, item.Type)
	}
	return f(item, quantity)
}

func newProductLineItem(item *catalogdomain.Item, quantity money.Decimal) (domain.LineItem, error) {
	if item.Product == nil {
		return domain.LineItem{}, catalogdomain.ErrVariantMismatch
	}
	return buildLineItem(item, quantity)
}

func newServiceLineItem(item *catalogdomain.Item, quantity money.Decimal) (domain.LineItem, error) {
	if item.Service == nil {
		return domain.LineItem{}, catalogdomain.ErrVariantMismatch
	}
	return buildLineItem(item, quantity)
}

func buildLineItem(item *catalogdomain.Item, quantity money.Decimal) (domain.LineItem, error) {
	li := domain.NewLineItem(domain.SnapshotItem(item))
	return li.SetQuantity(quantity)
}
