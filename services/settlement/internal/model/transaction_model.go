package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionModel holds one settlement record per session. The unique index
// on session_id is the arbiter for concurrent settlement attempts: whichever
// insert lands second gets a duplicate-key error, not a second charge.
type TransactionModel struct {
	ID              string          `gorm:"type:uuid;primary_key" json:"id"`
	SessionID       string          `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	CreatorAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"creator_amount"`
	Commission      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"commission"`
	DurationSeconds int             `gorm:"not null" json:"duration_seconds"`
	IsDone          bool            `gorm:"default:false" json:"is_done"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
