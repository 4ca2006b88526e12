package domain

import (
	"github.com/bwmarrin/snowflake"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/money"
)

// ItemSnapshot is an immutable copy of a catalog item taken at invoice time.
// Later catalog edits never alter historical invoices.
type ItemSnapshot struct {
	ItemID      snowflake.ID               `json:"item_id"`
	SKU         string                     `json:"sku"`
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	UnitPrice   money.Decimal              `json:"unit_price"`
	UnitType    string                     `json:"unit_type"`
	ItemType    catalogdomain.ItemType     `json:"item_type"`
	Category    catalogdomain.ItemCategory `json:"category"`
	TaxCode     string                     `json:"tax_code,omitempty"`
}

// SnapshotItem captures a catalog item as it stands right now.
func SnapshotItem(item *catalogdomain.Item) ItemSnapshot {
	return ItemSnapshot{
		ItemID:      item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   item.UnitPrice,
		UnitType:    item.UnitType,
		ItemType:    item.Type,
		Category:    item.Category,
		TaxCode:     item.TaxCode,
	}
}

// Equal is structural; decimals compare by value, not representation.
func (s ItemSnapshot) Equal(other ItemSnapshot) bool {
	return s.ItemID == other.ItemID &&
		s.SKU == other.SKU &&
		s.Name == other.Name &&
		s.Description == other.Description &&
		s.UnitPrice.Equal(other.UnitPrice) &&
		s.UnitType == other.UnitType &&
		s.ItemType == other.ItemType &&
		s.Category == other.Category &&
		s.TaxCode == other.TaxCode
}
