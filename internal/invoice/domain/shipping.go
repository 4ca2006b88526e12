package domain

import "github.com/maplebill/maplebill/internal/money"

// ShippingInfo is an immutable shipping value on the invoice.
type ShippingInfo struct {
	Name           string        `json:"name,omitempty"`
	Carrier        string        `json:"carrier,omitempty"`
	TrackingNumber string        `json:"tracking_number,omitempty"`
	Cost           money.Decimal `json:"cost"`
	IsRefundable   bool          `json:"is_refundable,omitempty"`
}

// EmptyShipping is the zero shipping value used on invoices without
// shipping.
func EmptyShipping() ShippingInfo {
	return ShippingInfo{Cost: money.Zero()}
}

// NewShipping validates and builds a shipping value.
func NewShipping(name, carrier, trackingNumber string, cost money.Decimal, refundable bool) (ShippingInfo, error) {
	if name == "" || carrier == "" {
		return ShippingInfo{}, ErrInvalidShipping
	}
	if cost.IsNegative() {
		return ShippingInfo{}, ErrInvalidShipping
	}
	return ShippingInfo{
		Name:           name,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
		Cost:           cost,
		IsRefundable:   refundable,
	}, nil
}
