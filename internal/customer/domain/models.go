// Package domain models customers and their address book.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrNoBillingAddress  = errors.New("no_billing_address")
	ErrNoShippingAddress = errors.New("no_shipping_address")
)

// CustomerType distinguishes ordinary customers from wholesale accounts.
type CustomerType string

const (
	CustomerTypeRegular   CustomerType = "regular"
	CustomerTypeWholesale CustomerType = "wholesale"
)

// Address is an immutable postal address value. Province holds the 2-letter
// code of the jurisdiction.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`

	IsDefault  bool `json:"is_default,omitempty"`
	IsBilling  bool `json:"is_billing,omitempty"`
	IsShipping bool `json:"is_shipping,omitempty"`
}

// IsZero reports a fully empty address.
func (a Address) IsZero() bool { return a == Address{} }

// AddressBook serializes as a JSON column on the customer row.
type AddressBook []Address

func (b AddressBook) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	return string(data), err
}

func (b *AddressBook) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported address book source %T", src)
	}
}

func (AddressBook) GormDataType() string { return "json" }

// Customer is a billable party.
type Customer struct {
	ID        snowflake.ID        `gorm:"primaryKey" json:"id"`
	Name      string              `gorm:"type:text;not null" json:"name"`
	Email     string              `gorm:"type:text;not null" json:"email"`
	Type      CustomerType        `gorm:"type:text;not null;default:'regular'" json:"type"`
	TaxStatus taxdomain.TaxStatus `gorm:"type:text;not null;default:'regular'" json:"tax_status"`
	Addresses AddressBook         `gorm:"type:jsonb;not null;default:'[]'" json:"addresses"`
	Metadata  datatypes.JSONMap   `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// BillingAddress picks the billing-flagged address, falling back to the
// default address.
func (c *Customer) BillingAddress() (Address, error) {
	if addr, ok := c.pick(func(a Address) bool { return a.IsBilling }); ok {
		return addr, nil
	}
	if addr, ok := c.pick(func(a Address) bool { return a.IsDefault }); ok {
		return addr, nil
	}
	return Address{}, ErrNoBillingAddress
}

// ShippingAddress picks the shipping-flagged address, falling back to the
// default address.
func (c *Customer) ShippingAddress() (Address, error) {
	if addr, ok := c.pick(func(a Address) bool { return a.IsShipping }); ok {
		return addr, nil
	}
	if addr, ok := c.pick(func(a Address) bool { return a.IsDefault }); ok {
		return addr, nil
	}
	return Address{}, ErrNoShippingAddress
}

func (c *Customer) pick(match func(Address) bool) (Address, bool) {
	for _, a := range c.Addresses {
		if match(a) {
			return a, true
		}
	}
	return Address{}, false
}

// AddAddress appends to the address book.
func (c *Customer) AddAddress(a Address) {
	c.Addresses = append(c.Addresses, a)
}
