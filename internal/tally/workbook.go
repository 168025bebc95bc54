package tally

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// ReadWorkbook turns the first sheet of an XLSX workbook into raw records. The first row
// holds source keys in either alias spelling; blank rows are skipped.
func ReadWorkbook(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Field: "file", Reason: "is not a readable xlsx workbook"}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ValidationError{Field: "file", Reason: "has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		blank := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			rec[header[i]] = cell
		}
		if !blank {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Export writes every row the tenant holds for kind as an XLSX workbook. Headers use the
// native Tally spelling, so an exported ledger, stock item or voucher sheet can be
// imported again unchanged.
func (e *Engine) Export(ctx context.Context, tenantID uint, kind *Kind, w io.Writer) error {
	var rows []map[string]any
	q := e.db.WithContext(ctx).Model(kind.Model()).Where("user_id = ?", tenantID)
	for _, order := range kind.Order {
		q = q.Order(order)
	}
	if err := q.Find(&rows).Error; err != nil {
		return fmt.Errorf("export %s: %w", kind.Name, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for col, field := range kind.Fields {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, field.Aliases[0]); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for col, field := range kind.Fields {
			value := cellValue(field, row[field.Column])
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue converts a scanned column into something excelize stores faithfully.
// Nullable columns scan as pointers; a nil pointer or empty text leaves the cell blank.
func cellValue(field Field, v any) any {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok && s == "" {
		return nil
	}

	switch field.Type {
	case TypeDate:
		if t, ok := v.(time.Time); ok {
			return t.Format("20060102")
		}
		if s, ok := v.(string); ok {
			if t, err := parseStoredDate(s); err == nil {
				return t.Format("20060102")
			}
		}
	case TypeDecimal:
		if d, err := decimal.NewFromString(fmt.Sprint(v)); err == nil {
			return d.Round(field.Scale).InexactFloat64()
		}
	}
	return v
}

// parseStoredDate reads dates some drivers return as text.
func parseStoredDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised stored date %q", s)
}
