package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Voucher struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"not null;uniqueIndex:idx_vouchers_user_guid" json:"user_id"`
	GUID   *string `gorm:"column:guid;size:255;uniqueIndex:idx_vouchers_user_guid" json:"guid"`

	Date          time.Time  `gorm:"type:date;not null;index" json:"date"`
	VoucherType   string     `gorm:"size:100;not null;index" json:"voucher_type"`
	VoucherNumber *string    `gorm:"size:100;index" json:"voucher_number"`
	Reference     *string    `gorm:"size:255" json:"reference"`
	ReferenceDate *time.Time `gorm:"type:date" json:"reference_date"`
	Narration     *string    `gorm:"type:text" json:"narration"`
	PartyName     *string    `gorm:"size:255;index" json:"party_name"`

	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	IsInvoice string          `gorm:"size:10;not null;default:No" json:"is_invoice"`

	LastSynced *time.Time `gorm:"index" json:"last_synced"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
