package tally

import (
	"bytes"
	"encoding/json"
)

// CoerceBatch turns a request body into a sequence of raw records. A JSON array yields its
// object elements in order, a single object yields one record, and anything else yields
// none.
func CoerceBatch(body []byte) []map[string]any {
	v, ok := decode(body)
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		records := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				records = append(records, obj)
			}
		}
		return records
	default:
		return nil
	}
}

// CoerceCompany extracts the company record from a request body. Tally's ODBC/XML bridge
// wraps it as {"BODY": {"DATA": {...}}}; a bare object or the first object of an array is
// accepted as well.
func CoerceCompany(body []byte) (map[string]any, bool) {
	v, ok := decode(body)
	if !ok {
		return nil, false
	}

	var obj map[string]any
	switch t := v.(type) {
	case map[string]any:
		obj = t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				obj = m
				break
			}
		}
	}
	if obj == nil {
		return nil, false
	}

	if envelope, ok := obj["BODY"].(map[string]any); ok {
		if data, ok := envelope["DATA"].(map[string]any); ok {
			return data, true
		}
	}
	return obj, true
}

func decode(body []byte) (any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
