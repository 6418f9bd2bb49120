package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a decimal amount that tolerates the two shapes catalog feeds
// use for prices: a plain JSON number, or a currency string with an
// optional leading "$". Unparsable values coerce to zero instead of
// failing the whole document.
type Price struct {
	decimal.Decimal
}

func PriceFromFloat(v float64) Price {
	return Price{decimal.NewFromFloat(v)}
}

func PriceFromInt(v int64) Price {
	return Price{decimal.NewFromInt(v)}
}

// ParsePrice strips a leading "$" and parses the rest as a decimal.
// Anything else yields zero.
func ParsePrice(raw string) Price {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}
	}
	return Price{d}
}

func (p Price) Add(other Price) Price {
	return Price{p.Decimal.Add(other.Decimal)}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ParsePrice(s)
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		*p = Price{}
		return nil
	}
	*p = Price{d}
	return nil
}

// MarshalJSON writes the amount as a bare JSON number.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}
