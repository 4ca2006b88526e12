package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TaxRateHistory serializes as a JSON column on the tax row so the full rate
// history travels with the tax.
type TaxRateHistory []TaxRate

func (h TaxRateHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	return string(b), err
}

func (h *TaxRateHistory) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = nil
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("unsupported tax rate history source %T", src)
	}
}

func (TaxRateHistory) GormDataType() string { return "json" }
