package tally

import (
	"tallysync-backend/internal/models"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeDecimal
	TypeDate
)

// Field maps one canonical column to the source keys it may arrive under. Aliases are
// tried in order: native Tally spelling first, snake_case second.
type Field struct {
	Column   string
	Aliases  []string
	Type     FieldType
	Scale    int32 // decimals only
	Required bool
	Default  any // used when no alias yields a value; decimals always default to zero
}

// Kind is the configuration of one synced entity. The engine has no per-entity code:
// everything it needs is in this table.
type Kind struct {
	Name     string // route segment and log context
	Label    string // used in response messages
	SyncType string
	Batch    bool // batches run inside one transaction; company is single-record
	Fields   []Field

	// KeySets lists candidate natural keys (besides the tenant) in preference order.
	// The first set whose values are all present wins; when none is complete the last
	// set is used as is.
	KeySets [][]string

	// Order is the listing order.
	Order []string

	model func() any
}

// Model returns a fresh pointer to the kind's gorm model.
func (k *Kind) Model() any {
	return k.model()
}

func (k *Kind) Field(column string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

var CompanyKind = &Kind{
	Name:     "company",
	Label:    "company data",
	SyncType: models.SyncTypeCompany,
	Batch:    false,
	Fields: []Field{
		{Column: "name", Aliases: []string{"FldCompanyName", "NAME"}, Default: "Unknown"},
		{Column: "guid", Aliases: []string{"FldGUID", "GUID"}},
		{Column: "gstin", Aliases: []string{"FldGSTIN", "GSTREGISTRATIONNO"}},
		{Column: "pan", Aliases: []string{"FldPAN", "PAN"}},
		{Column: "address", Aliases: []string{"FldAddress", "ADDRESS"}},
		{Column: "email", Aliases: []string{"FldEmail", "EMAIL"}},
		{Column: "phone", Aliases: []string{"FldPhone", "PHONE"}},
	},
	KeySets: [][]string{{"guid"}, {"name"}},
	Order:   []string{"name ASC", "id ASC"},
	model:   func() any { return &models.Company{} },
}

var LedgerKind = &Kind{
	Name:     "ledgers",
	Label:    "ledgers",
	SyncType: models.SyncTypeLedgers,
	Batch:    true,
	Fields: []Field{
		{Column: "name", Aliases: []string{"NAME", "name"}, Required: true},
		{Column: "guid", Aliases: []string{"GUID", "guid"}},
		{Column: "parent", Aliases: []string{"PARENT", "parent"}},
		{Column: "opening_balance", Aliases: []string{"OPENINGBALANCE", "opening_balance"}, Type: TypeDecimal, Scale: 2},
		{Column: "closing_balance", Aliases: []string{"CLOSINGBALANCE", "closing_balance"}, Type: TypeDecimal, Scale: 2},
		{Column: "gstin", Aliases: []string{"PARTYGSTIN", "gstin"}},
		{Column: "phone", Aliases: []string{"LEDGERPHONE", "phone"}},
		{Column: "email", Aliases: []string{"LEDGEREMAIL", "email"}},
		{Column: "address", Aliases: []string{"ADDRESS", "address"}},
	},
	KeySets: [][]string{{"guid"}},
	Order:   []string{"name ASC", "id ASC"},
	model:   func() any { return &models.Ledger{} },
}

var StockItemKind = &Kind{
	Name:     "stock-items",
	Label:    "stock items",
	SyncType: models.SyncTypeStockItems,
	Batch:    true,
	Fields: []Field{
		{Column: "name", Aliases: []string{"NAME", "name"}, Required: true},
		{Column: "guid", Aliases: []string{"GUID", "guid"}},
		{Column: "parent", Aliases: []string{"PARENT", "parent"}},
		{Column: "base_units", Aliases: []string{"BASEUNITS", "base_units"}},
		{Column: "opening_balance", Aliases: []string{"OPENINGBALANCE", "opening_balance"}, Type: TypeDecimal, Scale: 3},
		{Column: "opening_value", Aliases: []string{"OPENINGVALUE", "opening_value"}, Type: TypeDecimal, Scale: 2},
		{Column: "closing_balance", Aliases: []string{"CLOSINGBALANCE", "closing_balance"}, Type: TypeDecimal, Scale: 3},
		{Column: "closing_value", Aliases: []string{"CLOSINGVALUE", "closing_value"}, Type: TypeDecimal, Scale: 2},
		{Column: "hsn_code", Aliases: []string{"HSNCODE", "hsn_code"}},
		{Column: "gst_applicable", Aliases: []string{"GSTAPPLICABLE", "gst_applicable"}},
	},
	KeySets: [][]string{{"guid"}},
	Order:   []string{"name ASC", "id ASC"},
	model:   func() any { return &models.StockItem{} },
}

var VoucherKind = &Kind{
	Name:     "vouchers",
	Label:    "vouchers",
	SyncType: models.SyncTypeVouchers,
	Batch:    true,
	Fields: []Field{
		{Column: "guid", Aliases: []string{"GUID", "guid"}},
		{Column: "date", Aliases: []string{"DATE", "date"}, Type: TypeDate, Required: true},
		{Column: "voucher_type", Aliases: []string{"VOUCHERTYPENAME", "voucher_type"}, Required: true},
		{Column: "voucher_number", Aliases: []string{"VOUCHERNUMBER", "voucher_number"}},
		{Column: "reference", Aliases: []string{"REFERENCE", "reference"}},
		{Column: "reference_date", Aliases: []string{"REFERENCEDATE", "reference_date"}, Type: TypeDate},
		{Column: "narration", Aliases: []string{"NARRATION", "narration"}},
		{Column: "party_name", Aliases: []string{"PARTYNAME", "party_name"}},
		{Column: "amount", Aliases: []string{"AMOUNT", "amount"}, Type: TypeDecimal, Scale: 2},
		{Column: "is_invoice", Aliases: []string{"ISINVOICE", "is_invoice"}, Default: "No"},
	},
	KeySets: [][]string{{"guid"}},
	Order:   []string{"date DESC", "id DESC"},
	model:   func() any { return &models.Voucher{} },
}

// Kinds lists every entity kind in status-report order.
var Kinds = []*Kind{CompanyKind, LedgerKind, StockItemKind, VoucherKind}
