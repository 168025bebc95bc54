package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_stock_items_user_guid" json:"user_id"`
	Name      string  `gorm:"size:255;not null;index" json:"name"`
	GUID      *string `gorm:"column:guid;size:255;uniqueIndex:idx_stock_items_user_guid" json:"guid"`
	Parent    *string `gorm:"size:255;index" json:"parent"`
	BaseUnits *string `gorm:"size:50" json:"base_units"`

	// Balances are quantities (3 digits), values are money (2 digits).
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"opening_balance"`
	OpeningValue   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"opening_value"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"closing_balance"`
	ClosingValue   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"closing_value"`

	HSNCode       *string `gorm:"column:hsn_code;size:50;index" json:"hsn_code"`
	GSTApplicable *string `gorm:"column:gst_applicable;size:10" json:"gst_applicable"`

	LastSynced *time.Time `gorm:"index" json:"last_synced"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
