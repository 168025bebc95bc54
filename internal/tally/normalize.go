package tally

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record holds canonical column values ready for storage. Values are string,
// decimal.Decimal, time.Time or nil.
type Record map[string]any

// Tally exports dates as YYYYMMDD; the remaining layouts cover hand-built payloads.
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-Jan-2006",
	"2-Jan-06",
	time.RFC3339,
}

// XML-to-JSON converters put element attributes and text under these keys.
const (
	attributesKey = "_attributes"
	textKey       = "_text"
)

// Normalize maps a raw source record onto the kind's canonical columns. It never touches
// storage. Failures are returned as *ValidationError.
func (k *Kind) Normalize(raw map[string]any) (Record, error) {
	rec := make(Record, len(k.Fields))
	for _, f := range k.Fields {
		value, present := lookup(raw, f.Aliases)
		text, ok := "", false
		if present {
			text, ok = scalarText(value)
		}

		switch f.Type {
		case TypeDecimal:
			d := decimal.Zero
			if ok {
				parsed, err := parseDecimal(text)
				switch {
				case err == nil:
					d = parsed
				case f.Required:
					return nil, &ValidationError{Field: f.Column, Reason: "is not a number"}
				}
			} else if f.Required {
				return nil, &ValidationError{Field: f.Column, Reason: "is required"}
			}
			fitted, inRange := fitDecimal(d, f.Scale)
			if !inRange {
				return nil, &ValidationError{Field: f.Column, Reason: "is out of range"}
			}
			rec[f.Column] = fitted

		case TypeDate:
			if !ok {
				if f.Required {
					return nil, &ValidationError{Field: f.Column, Reason: "is required"}
				}
				rec[f.Column] = nil
				continue
			}
			t, err := parseDate(text)
			if err != nil {
				if f.Required {
					return nil, &ValidationError{Field: f.Column, Reason: fmt.Sprintf("is not a recognised date: %q", text)}
				}
				rec[f.Column] = nil
				continue
			}
			rec[f.Column] = t

		default:
			switch {
			case ok:
				rec[f.Column] = text
			case f.Required:
				return nil, &ValidationError{Field: f.Column, Reason: "is required"}
			default:
				rec[f.Column] = f.Default
			}
		}
	}
	return rec, nil
}

// lookup returns the value of the first alias present in raw. Attribute maps are only
// consulted when no alias appears at the top level.
func lookup(raw map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok {
			return v, true
		}
	}
	if attrs, ok := raw[attributesKey].(map[string]any); ok {
		for _, alias := range aliases {
			if v, ok := attrs[alias]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// scalarText renders a JSON value as trimmed text. The second result is false for null,
// empty text and values with no scalar reading.
func scalarText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	case map[string]any:
		// element with attributes: {"_text": "...", "_attributes": {...}}
		inner, ok := t[textKey]
		if !ok {
			return "", false
		}
		return scalarText(inner)
	case []any:
		// repeated element: first non-empty occurrence wins
		for _, item := range t {
			if s, ok := scalarText(item); ok {
				return s, true
			}
		}
		return "", false
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}

// parseDecimal reads the leading number of s. Thousands separators are dropped and a
// trailing unit ("10 Nos", "1500.00 Dr") is ignored.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	return decimal.NewFromString(s)
}

// decimalPrecision is the total digit count of every stored decimal column.
const decimalPrecision = 15

// fitDecimal rounds d to scale, reporting false when the integer part cannot fit the
// column. Magnitudes are checked before rounding so extreme exponents stay cheap.
func fitDecimal(d decimal.Decimal, scale int32) (decimal.Decimal, bool) {
	if d.IsZero() {
		return decimal.Zero.Round(scale), true
	}
	intDigits := int64(d.NumDigits()) + int64(d.Exponent())
	if intDigits > int64(decimalPrecision-scale) {
		return decimal.Decimal{}, false
	}
	if intDigits < -int64(scale) {
		// below half of the smallest unit, rounds to zero
		return decimal.Zero.Round(scale), true
	}
	rounded := d.Round(scale)
	if int64(rounded.NumDigits())+int64(rounded.Exponent()) > int64(decimalPrecision-scale) {
		return decimal.Decimal{}, false
	}
	return rounded, true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// calendar date as written, offset dropped
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
