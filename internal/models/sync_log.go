package models

import "time"

type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusFailed     SyncStatus = "failed"
)

// Sync type tags stored in sync_logs.sync_type.
const (
	SyncTypeCompany    = "company"
	SyncTypeLedgers    = "ledgers"
	SyncTypeStockItems = "stock_items"
	SyncTypeVouchers   = "vouchers"
)

// SyncLog is the append-only audit row of one sync batch. SyncCompleted stays nil
// while Status is in_progress.
type SyncLog struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	SyncType string `gorm:"size:50;not null;index" json:"sync_type"`

	RecordsInserted int `gorm:"not null;default:0" json:"records_inserted"`
	RecordsUpdated  int `gorm:"not null;default:0" json:"records_updated"`
	RecordsTotal    int `gorm:"not null;default:0" json:"records_total"`

	Status       SyncStatus `gorm:"size:20;not null;index" json:"status"`
	ErrorMessage *string    `gorm:"type:text" json:"error_message"`

	SyncStarted   time.Time  `json:"sync_started"`
	SyncCompleted *time.Time `json:"sync_completed"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Company{},
		&Ledger{},
		&StockItem{},
		&Voucher{},
		&SyncLog{},
	}
}
