package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKey(t *testing.T) {
	t.Run("company prefers guid", func(t *testing.T) {
		key := CompanyKind.ResolveKey(7, Record{"name": "Acme", "guid": "g-1"})
		assert.Equal(t, []string{"guid"}, key.Columns)
		assert.Equal(t, map[string]any{"user_id": uint(7), "guid": "g-1"}, key.Conditions())
		assert.True(t, key.Has("guid"))
		assert.False(t, key.Has("name"))
	})

	t.Run("company falls back to name", func(t *testing.T) {
		key := CompanyKind.ResolveKey(7, Record{"name": "Acme", "guid": nil})
		assert.Equal(t, []string{"name"}, key.Columns)
		assert.Equal(t, map[string]any{"user_id": uint(7), "name": "Acme"}, key.Conditions())
	})

	t.Run("guid-less ledger keys on null", func(t *testing.T) {
		key := LedgerKind.ResolveKey(3, Record{"name": "Cash", "guid": nil})
		assert.Equal(t, []string{"guid"}, key.Columns)
		assert.Equal(t, map[string]any{"user_id": uint(3), "guid": nil}, key.Conditions())
		assert.Equal(t, "user_id=3,guid=NULL", key.String())
	})

	t.Run("tenant is always part of the key", func(t *testing.T) {
		a := VoucherKind.ResolveKey(1, Record{"guid": "v"})
		b := VoucherKind.ResolveKey(2, Record{"guid": "v"})
		assert.NotEqual(t, a.Conditions(), b.Conditions())
	})
}

func TestAdoptionConditions(t *testing.T) {
	rec := Record{"name": "Acme", "guid": "g-1"}
	key := CompanyKind.ResolveKey(7, rec)
	assert.Equal(t, []map[string]any{
		{"user_id": uint(7), "name": "Acme", "guid": nil},
	}, CompanyKind.AdoptionConditions(key, rec))

	nameOnly := Record{"name": "Acme", "guid": nil}
	assert.Empty(t, CompanyKind.AdoptionConditions(CompanyKind.ResolveKey(7, nameOnly), nameOnly))

	ledger := Record{"name": "Cash", "guid": "l-1"}
	assert.Empty(t, LedgerKind.AdoptionConditions(LedgerKind.ResolveKey(7, ledger), ledger))
}
