package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceRange is a not-yet-confirmed price band, stored as a jsonb column.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Valid reports min > 0, max > 0 and min <= max.
func (r PriceRange) Valid() bool {
	return r.Min.IsPositive() && r.Max.IsPositive() && r.Min.LessThanOrEqual(r.Max)
}

func (r PriceRange) Midpoint() decimal.Decimal {
	return r.Min.Add(r.Max).Div(decimal.NewFromInt(2))
}

func (r PriceRange) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *PriceRange) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PriceRange", value)
	}
	return json.Unmarshal(raw, r)
}
