package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Ratio is either a computed value or undefined. A ratio is undefined
// when its denominator is zero; this is a normal result state, distinct
// from a computed zero, and must survive serialization as such.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// DefinedRatio wraps a computed value.
func DefinedRatio(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// UndefinedRatio is the no-value marker.
func UndefinedRatio() Ratio {
	return Ratio{}
}

// Defined reports whether the ratio holds a value.
func (r Ratio) Defined() bool {
	return r.defined
}

// Value returns the computed value. Zero when undefined; check Defined first.
func (r Ratio) Value() decimal.Decimal {
	return r.value
}

// String formats the value to two decimal places, or "n/a" when undefined.
func (r Ratio) String() string {
	if !r.defined {
		return "n/a"
	}
	return r.value.StringFixed(2)
}

// MarshalJSON encodes a defined ratio as a number string and an
// undefined one as null, keeping 0 and undefined distinguishable.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return r.value.MarshalJSON()
}

// UnmarshalJSON accepts null (undefined) or a numeric value.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRatio()
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = DefinedRatio(v)
	return nil
}

// NamedRatio pairs a display name with its value.
type NamedRatio struct {
	Name  string `json:"name"`
	Ratio Ratio  `json:"value"`
}

// RatioResult is the ordered ratio set. Order is fixed by the engine and
// preserved through JSON so clients can render tiles without sorting.
type RatioResult []NamedRatio

// Get looks a ratio up by name. The second return is false when the name
// is not present.
func (rr RatioResult) Get(name string) (Ratio, bool) {
	for _, nr := range rr {
		if nr.Name == name {
			return nr.Ratio, true
		}
	}
	return Ratio{}, false
}
