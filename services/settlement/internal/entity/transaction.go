package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the at-most-once settlement record for a session.
// Its existence (unique session id) is the idempotency key: a second
// settlement attempt for the same session must find or collide with it.
// IsDone flips to true only after both wallet mutations succeeded; a record
// stuck at false marks the session for out-of-band reconciliation.
type TransactionRecord struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	CreatorAmount   decimal.Decimal `json:"creator_amount"`
	Commission      decimal.Decimal `json:"commission"`
	DurationSeconds int             `json:"duration_seconds"`
	IsDone          bool            `json:"is_done"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
