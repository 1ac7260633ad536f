package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletModel struct {
	ID        string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string          `gorm:"type:uuid;not null;uniqueIndex:ux_wallet_user_type" json:"user_id"`
	UserType  string          `gorm:"type:varchar(10);not null;uniqueIndex:ux_wallet_user_type" json:"user_type"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

type WalletEntryModel struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	UserType      string          `gorm:"type:varchar(10);not null" json:"user_type"`
	SessionID     string          `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Category      string          `gorm:"type:varchar(30);not null" json:"category"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(12,2)" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(12,2)" json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (WalletEntryModel) TableName() string {
	return "wallet_entries"
}

func (e *WalletEntryModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
