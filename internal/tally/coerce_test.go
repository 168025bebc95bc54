package tally

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceBatch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"NAME":"A"},{"NAME":"B"}]`, 2},
		{"single object", `{"NAME":"A"}`, 1},
		{"non-object elements dropped", `[{"NAME":"A"}, 1, "x", null, [], {"NAME":"B"}]`, 2},
		{"empty array", `[]`, 0},
		{"empty body", ``, 0},
		{"whitespace body", "  \n", 0},
		{"malformed", `[{"NAME":`, 0},
		{"scalar", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, CoerceBatch([]byte(tt.body)), tt.want)
		})
	}
}

func TestCoerceBatchKeepsOrderAndNumbers(t *testing.T) {
	records := CoerceBatch([]byte(`[{"NAME":"A","AMOUNT":12.50},{"NAME":"B"}]`))
	require.Len(t, records, 2)

	assert.Equal(t, "A", records[0]["NAME"])
	assert.Equal(t, json.Number("12.50"), records[0]["AMOUNT"])
	assert.Equal(t, "B", records[1]["NAME"])
}

func TestCoerceBatchSingletonMatchesArray(t *testing.T) {
	single := CoerceBatch([]byte(`{"NAME":"A","GUID":"g"}`))
	array := CoerceBatch([]byte(`[{"NAME":"A","GUID":"g"}]`))
	assert.Equal(t, array, single)
}

func TestCoerceCompany(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantName string
	}{
		{"envelope", `{"BODY":{"DATA":{"FldCompanyName":"Acme"}}}`, true, "Acme"},
		{"bare object", `{"FldCompanyName":"Acme"}`, true, "Acme"},
		{"body without data object", `{"BODY":{"DATA":"x"},"NAME":"Acme"}`, true, "Acme"},
		{"array", `[{"NAME":"Acme"},{"NAME":"Other"}]`, true, "Acme"},
		{"array with leading scalar", `[1,{"NAME":"Acme"}]`, true, "Acme"},
		{"empty", ``, false, ""},
		{"malformed", `{"BODY":`, false, ""},
		{"scalar array", `[1,2]`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := CoerceCompany([]byte(tt.body))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}

			rec, err := CompanyKind.Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rec["name"])
		})
	}
}
