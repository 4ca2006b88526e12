package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
)

// The aggregate's owned collections persist as JSON columns on the invoice
// row, so the whole aggregate loads and saves in one statement.

func jsonValue(v interface{}, empty string) (driver.Value, error) {
	if v == nil {
		return empty, nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func jsonScan(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
}

type LineItems []LineItem

func (c LineItems) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]LineItem(c), "[]")
}
func (c *LineItems) Scan(src interface{}) error { return jsonScan(src, c) }
func (LineItems) GormDataType() string          { return "json" }

type AppliedDiscounts []AppliedDiscount

func (c AppliedDiscounts) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]AppliedDiscount(c), "[]")
}
func (c *AppliedDiscounts) Scan(src interface{}) error { return jsonScan(src, c) }
func (AppliedDiscounts) GormDataType() string          { return "json" }

type AppliedSurcharges []AppliedSurcharge

func (c AppliedSurcharges) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]AppliedSurcharge(c), "[]")
}
func (c *AppliedSurcharges) Scan(src interface{}) error { return jsonScan(src, c) }
func (AppliedSurcharges) GormDataType() string          { return "json" }

type AppliedPayments []AppliedPayment

func (c AppliedPayments) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]AppliedPayment(c), "[]")
}
func (c *AppliedPayments) Scan(src interface{}) error { return jsonScan(src, c) }
func (AppliedPayments) GormDataType() string          { return "json" }

type AppliedRefunds []AppliedRefund

func (c AppliedRefunds) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]AppliedRefund(c), "[]")
}
func (c *AppliedRefunds) Scan(src interface{}) error { return jsonScan(src, c) }
func (AppliedRefunds) GormDataType() string          { return "json" }

// AddressColumn persists a customer address snapshot as JSON.
type AddressColumn customerdomain.Address

func (c AddressColumn) Value() (driver.Value, error) {
	return jsonValue(customerdomain.Address(c), "{}")
}
func (c *AddressColumn) Scan(src interface{}) error { return jsonScan(src, c) }
func (AddressColumn) GormDataType() string          { return "json" }

// ShippingColumn persists the shipping value as JSON.
type ShippingColumn ShippingInfo

func (c ShippingColumn) Value() (driver.Value, error) {
	return jsonValue(ShippingInfo(c), "{}")
}
func (c *ShippingColumn) Scan(src interface{}) error { return jsonScan(src, c) }
func (ShippingColumn) GormDataType() string          { return "json" }
