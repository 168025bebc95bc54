package models

import "time"

type Company struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	UserID uint    `gorm:"not null;uniqueIndex:idx_companies_user_guid;index:idx_companies_user_name" json:"user_id"`
	Name   string  `gorm:"size:255;not null;index:idx_companies_user_name" json:"name"`
	GUID   *string `gorm:"column:guid;size:255;uniqueIndex:idx_companies_user_guid" json:"guid"`
	GSTIN  *string `gorm:"column:gstin;size:50;index" json:"gstin"`
	PAN    *string `gorm:"column:pan;size:20" json:"pan"`

	Address *string `gorm:"type:text" json:"address"`
	Email   *string `gorm:"size:255" json:"email"`
	Phone   *string `gorm:"size:50" json:"phone"`

	LastSynced *time.Time `json:"last_synced"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
