package tally

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(t *testing.T, v any, places int32) string {
	t.Helper()
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, "expected decimal.Decimal, got %T", v)
	return d.StringFixed(places)
}

func TestNormalizeLedgerAliasesAreEquivalent(t *testing.T) {
	native := map[string]any{
		"NAME":           "Cash",
		"GUID":           "guid-1",
		"PARENT":         "Cash-in-Hand",
		"OPENINGBALANCE": "1500.50",
		"CLOSINGBALANCE": json.Number("-200"),
		"PARTYGSTIN":     "29ABCDE1234F1Z5",
		"LEDGERPHONE":    "9999999999",
		"LEDGEREMAIL":    "cash@example.com",
		"ADDRESS":        "MG Road",
	}
	snake := map[string]any{
		"name":            "Cash",
		"guid":            "guid-1",
		"parent":          "Cash-in-Hand",
		"opening_balance": "1500.50",
		"closing_balance": json.Number("-200"),
		"gstin":           "29ABCDE1234F1Z5",
		"phone":           "9999999999",
		"email":           "cash@example.com",
		"address":         "MG Road",
	}

	a, err := LedgerKind.Normalize(native)
	require.NoError(t, err)
	b, err := LedgerKind.Normalize(snake)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "Cash", a["name"])
	assert.Equal(t, "1500.50", fixed(t, a["opening_balance"], 2))
	assert.Equal(t, "-200.00", fixed(t, a["closing_balance"], 2))
}

func TestNormalizeNativeAliasWins(t *testing.T) {
	rec, err := LedgerKind.Normalize(map[string]any{"NAME": "Native", "name": "Snake"})
	require.NoError(t, err)
	assert.Equal(t, "Native", rec["name"])
}

func TestNormalizeExplicitNullSelectsDefault(t *testing.T) {
	rec, err := CompanyKind.Normalize(map[string]any{"FldCompanyName": nil, "NAME": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", rec["name"])
}

func TestNormalizeDefaults(t *testing.T) {
	t.Run("company", func(t *testing.T) {
		rec, err := CompanyKind.Normalize(map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "Unknown", rec["name"])
		assert.Nil(t, rec["guid"])
		assert.Nil(t, rec["gstin"])
	})

	t.Run("ledger", func(t *testing.T) {
		rec, err := LedgerKind.Normalize(map[string]any{"NAME": "Bank"})
		require.NoError(t, err)
		assert.Equal(t, "0.00", fixed(t, rec["opening_balance"], 2))
		assert.Equal(t, "0.00", fixed(t, rec["closing_balance"], 2))
		assert.Nil(t, rec["parent"])
		assert.Nil(t, rec["guid"])
	})

	t.Run("voucher", func(t *testing.T) {
		rec, err := VoucherKind.Normalize(map[string]any{"DATE": "20240115", "VOUCHERTYPENAME": "Sales"})
		require.NoError(t, err)
		assert.Equal(t, "No", rec["is_invoice"])
		assert.Equal(t, "0.00", fixed(t, rec["amount"], 2))
		assert.Nil(t, rec["reference_date"])
	})

	t.Run("empty string counts as absent", func(t *testing.T) {
		rec, err := VoucherKind.Normalize(map[string]any{"DATE": "20240115", "VOUCHERTYPENAME": "Sales", "ISINVOICE": "  "})
		require.NoError(t, err)
		assert.Equal(t, "No", rec["is_invoice"])
	})
}

func TestNormalizeRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		kind  *Kind
		raw   map[string]any
		field string
	}{
		{"ledger without name", LedgerKind, map[string]any{"GUID": "g"}, "name"},
		{"ledger with blank name", LedgerKind, map[string]any{"NAME": "   "}, "name"},
		{"stock item without name", StockItemKind, map[string]any{"GUID": "g"}, "name"},
		{"voucher without date", VoucherKind, map[string]any{"VOUCHERTYPENAME": "Sales"}, "date"},
		{"voucher with bad date", VoucherKind, map[string]any{"DATE": "yesterday", "VOUCHERTYPENAME": "Sales"}, "date"},
		{"voucher without type", VoucherKind, map[string]any{"DATE": "20240115"}, "voucher_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.kind.Normalize(tt.raw)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestNormalizeDecimals(t *testing.T) {
	tests := []struct {
		in    any
		scale int32
		want  string
	}{
		{"1,234.567", 2, "1234.57"},
		{"10 Nos", 3, "10.000"},
		{"-5000.00 Dr", 2, "-5000.00"},
		{json.Number("12.3456"), 2, "12.35"},
		{float64(7.25), 2, "7.25"},
		{12, 3, "12.000"},
		{"not a number", 2, "0.00"},
		{"", 2, "0.00"},
		{nil, 2, "0.00"},
	}

	for _, tt := range tests {
		kind := LedgerKind
		column, alias := "opening_balance", "OPENINGBALANCE"
		if tt.scale == 3 {
			kind = StockItemKind
		}

		rec, err := kind.Normalize(map[string]any{"NAME": "X", alias: tt.in})
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, fixed(t, rec[column], tt.scale), "input %v", tt.in)
	}
}

func TestNormalizeDecimalBounds(t *testing.T) {
	fits := []struct {
		in    string
		scale int32
		want  string
	}{
		{"9999999999999.99", 2, "9999999999999.99"},
		{"999999999999.999", 3, "999999999999.999"},
		{"1e-999999999", 2, "0.00"},
		{"0e999999999", 2, "0.00"},
		{"0.004", 2, "0.00"},
		{"1.5e3", 2, "1500.00"},
	}
	for _, tt := range fits {
		kind := LedgerKind
		if tt.scale == 3 {
			kind = StockItemKind
		}
		rec, err := kind.Normalize(map[string]any{"NAME": "X", "OPENINGBALANCE": tt.in})
		require.NoError(t, err, "input %s", tt.in)
		assert.Equal(t, tt.want, fixed(t, rec["opening_balance"], tt.scale), "input %s", tt.in)
	}

	tooLarge := []struct {
		kind *Kind
		raw  map[string]any
	}{
		{LedgerKind, map[string]any{"NAME": "X", "OPENINGBALANCE": "1e999999999"}},
		{LedgerKind, map[string]any{"NAME": "X", "OPENINGBALANCE": "1e20000000"}},
		{LedgerKind, map[string]any{"NAME": "X", "OPENINGBALANCE": "99999999999999"}},
		{LedgerKind, map[string]any{"NAME": "X", "OPENINGBALANCE": "9999999999999.999"}},
		{StockItemKind, map[string]any{"NAME": "X", "OPENINGBALANCE": "1000000000000"}},
		{VoucherKind, map[string]any{"DATE": "20240115", "VOUCHERTYPENAME": "Sales", "AMOUNT": json.Number("-1e400")}},
	}
	for _, tt := range tooLarge {
		start := time.Now()
		_, err := tt.kind.Normalize(tt.raw)
		assert.Less(t, time.Since(start), time.Second, "input %v", tt.raw)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %v", tt.raw)
		assert.Equal(t, "is out of range", verr.Reason)
		assert.True(t, IsValidation(err))
	}
}

func TestNormalizeDates(t *testing.T) {
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	inputs := []any{
		"20240115",
		json.Number("20240115"),
		"2024-01-15",
		"15-01-2024",
		"15/01/2024",
		"15-Jan-2024",
		"15-Jan-24",
		"2024-01-15T23:30:00+05:30",
	}

	for _, in := range inputs {
		rec, err := VoucherKind.Normalize(map[string]any{"DATE": in, "VOUCHERTYPENAME": "Sales"})
		require.NoError(t, err, "input %v", in)
		assert.Equal(t, want, rec["date"], "input %v", in)
	}

	rec, err := VoucherKind.Normalize(map[string]any{
		"DATE":            "20240115",
		"VOUCHERTYPENAME": "Sales",
		"REFERENCEDATE":   "sometime",
	})
	require.NoError(t, err)
	assert.Nil(t, rec["reference_date"])
}

func TestNormalizeConverterShapes(t *testing.T) {
	rec, err := LedgerKind.Normalize(map[string]any{
		"_attributes": map[string]any{"NAME": "Sundry Debtors", "RESERVEDNAME": ""},
		"GUID":        map[string]any{"_text": " guid-9 ", "_attributes": map[string]any{"TYPE": "String"}},
		"ADDRESS":     []any{"", "Line 1", "Line 2"},
		"PARENT":      map[string]any{"_attributes": map[string]any{"TYPE": "String"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sundry Debtors", rec["name"])
	assert.Equal(t, "guid-9", rec["guid"])
	assert.Equal(t, "Line 1", rec["address"])
	assert.Nil(t, rec["parent"])
}

func TestNormalizeTrimsStrings(t *testing.T) {
	rec, err := StockItemKind.Normalize(map[string]any{
		"NAME":          "  Widget  ",
		"BASEUNITS":     "Nos ",
		"GSTAPPLICABLE": true,
		"HSNCODE":       json.Number("8471"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Widget", rec["name"])
	assert.Equal(t, "Nos", rec["base_units"])
	assert.Equal(t, "true", rec["gst_applicable"])
	assert.Equal(t, "8471", rec["hsn_code"])
}
