package tally

import (
	"context"
	"fmt"
	"time"
)

type lastSyncRow struct {
	LastSynced *time.Time
}

type Status struct {
	Companies  int64      `json:"companies"`
	Ledgers    int64      `json:"ledgers"`
	StockItems int64      `json:"stock_items"`
	Vouchers   int64      `json:"vouchers"`
	LastSync   *time.Time `json:"last_sync"`
}

// Status reports how many rows the tenant holds per kind and the most recent last_synced
// across all of them.
func (e *Engine) Status(ctx context.Context, tenantID uint) (Status, error) {
	db := e.db.WithContext(ctx)
	counts := make(map[*Kind]int64, len(Kinds))
	var status Status

	for _, kind := range Kinds {
		var n int64
		if err := db.Model(kind.Model()).Where("user_id = ?", tenantID).Count(&n).Error; err != nil {
			return Status{}, fmt.Errorf("count %s: %w", kind.Name, err)
		}
		counts[kind] = n

		// ORDER BY + LIMIT instead of MAX keeps the column type for the driver's time scanning
		var row lastSyncRow
		err := db.Model(kind.Model()).
			Select("last_synced").
			Where("user_id = ? AND last_synced IS NOT NULL", tenantID).
			Order("last_synced DESC").
			Limit(1).
			Scan(&row).Error
		if err != nil {
			return Status{}, fmt.Errorf("last sync of %s: %w", kind.Name, err)
		}
		if row.LastSynced != nil && (status.LastSync == nil || row.LastSynced.After(*status.LastSync)) {
			status.LastSync = row.LastSynced
		}
	}

	status.Companies = counts[CompanyKind]
	status.Ledgers = counts[LedgerKind]
	status.StockItems = counts[StockItemKind]
	status.Vouchers = counts[VoucherKind]
	return status, nil
}
