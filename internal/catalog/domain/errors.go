package domain

import "errors"

var (
	ErrNotFound         = errors.New("not_found")
	ErrDuplicateSKU     = errors.New("duplicate_sku")
	ErrVariantMismatch  = errors.New("item_variant_mismatch")
	ErrUnknownItemType  = errors.New("unknown_item_type")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
)
