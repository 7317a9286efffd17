package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// numberDecimalKey is the wrapper key the backend uses for Decimal128 fields.
const numberDecimalKey = "$numberDecimal"

// Decimal is a lenient JSON decimal. It accepts plain numbers, numeric
// strings and {"$numberDecimal": "..."} wrappers. Anything else decodes to
// zero instead of failing the surrounding document.
type Decimal struct {
	value decimal.Decimal
}

func NewDecimal(value decimal.Decimal) Decimal {
	return Decimal{value: value}
}

func DecimalFromInt(value int64) Decimal {
	return Decimal{value: decimal.NewFromInt(value)}
}

// DecimalFromString parses raw defensively; malformed input yields zero.
func DecimalFromString(raw string) Decimal {
	return Decimal{value: ParseDecimal(raw)}
}

// Value returns the wrapped decimal.
func (d Decimal) Value() decimal.Decimal {
	return d.value
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) String() string {
	return d.value.String()
}

// ParseDecimal trims and parses raw, returning zero when it is not a number.
func ParseDecimal(raw string) decimal.Decimal {
	clean := strings.TrimSpace(raw)
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	d.value = parseJSONDecimal(data, 0)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.value.String()), nil
}

func parseJSONDecimal(data []byte, depth int) decimal.Decimal {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || depth > 2 {
		return decimal.Zero
	}

	switch trimmed[0] {
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return decimal.Zero
		}
		raw, ok := wrapper[numberDecimalKey]
		if !ok {
			return decimal.Zero
		}
		return parseJSONDecimal(raw, depth+1)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero
		}
		return ParseDecimal(s)
	case 't', 'f', '[':
		return decimal.Zero
	default:
		return ParseDecimal(string(trimmed))
	}
}
