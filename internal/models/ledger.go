package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ledger struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"not null;uniqueIndex:idx_ledgers_user_guid" json:"user_id"`
	Name   string  `gorm:"size:255;not null;index" json:"name"`
	GUID   *string `gorm:"column:guid;size:255;uniqueIndex:idx_ledgers_user_guid" json:"guid"`
	Parent *string `gorm:"size:255;index" json:"parent"` // parent group name, not a foreign key

	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"opening_balance"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"closing_balance"`

	GSTIN   *string `gorm:"column:gstin;size:50" json:"gstin"`
	Phone   *string `gorm:"size:50" json:"phone"`
	Email   *string `gorm:"size:255" json:"email"`
	Address *string `gorm:"type:text" json:"address"`

	LastSynced *time.Time `gorm:"index" json:"last_synced"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
