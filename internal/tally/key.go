package tally

import (
	"fmt"
	"strings"
)

// NaturalKey identifies a stored row independently of its surrogate id.
type NaturalKey struct {
	TenantID uint
	Columns  []string
	Values   []any
}

// ResolveKey picks the first candidate key set whose values are all present in rec. When
// none is complete the last candidate is used, so a missing guid resolves to (tenant, NULL).
func (k *Kind) ResolveKey(tenantID uint, rec Record) NaturalKey {
	chosen := k.KeySets[len(k.KeySets)-1]
	for _, set := range k.KeySets {
		if complete(rec, set) {
			chosen = set
			break
		}
	}

	key := NaturalKey{
		TenantID: tenantID,
		Columns:  chosen,
		Values:   make([]any, len(chosen)),
	}
	for i, col := range chosen {
		key.Values[i] = rec[col]
	}
	return key
}

// AdoptionConditions lists lookups for a row stored under a later key set before the
// chosen key was known, e.g. a company synced by name that now arrives with its guid.
// Each condition matches that key set's values with the chosen key columns still NULL.
func (k *Kind) AdoptionConditions(key NaturalKey, rec Record) []map[string]any {
	var conds []map[string]any
	later := false
	for _, set := range k.KeySets {
		if !later {
			later = sameColumns(set, key.Columns)
			continue
		}
		if !complete(rec, set) {
			continue
		}
		cond := map[string]any{"user_id": key.TenantID}
		for _, col := range key.Columns {
			cond[col] = nil
		}
		for _, col := range set {
			cond[col] = rec[col]
		}
		conds = append(conds, cond)
	}
	return conds
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func complete(rec Record, columns []string) bool {
	for _, col := range columns {
		if rec[col] == nil {
			return false
		}
	}
	return true
}

// Conditions renders the key as a gorm map condition. Nil values become IS NULL.
func (nk NaturalKey) Conditions() map[string]any {
	cond := make(map[string]any, len(nk.Columns)+1)
	cond["user_id"] = nk.TenantID
	for i, col := range nk.Columns {
		cond[col] = nk.Values[i]
	}
	return cond
}

func (nk NaturalKey) Has(column string) bool {
	for _, col := range nk.Columns {
		if col == column {
			return true
		}
	}
	return false
}

func (nk NaturalKey) String() string {
	parts := make([]string, 0, len(nk.Columns)+1)
	parts = append(parts, fmt.Sprintf("user_id=%d", nk.TenantID))
	for i, col := range nk.Columns {
		if nk.Values[i] == nil {
			parts = append(parts, col+"=NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", col, nk.Values[i]))
	}
	return strings.Join(parts, ",")
}
