package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserType string

const (
	UserTypeClient  UserType = "Client"
	UserTypeCreator UserType = "Creator"
)

func (u UserType) Valid() bool {
	return u == UserTypeClient || u == UserTypeCreator
}

type EntryCategory string

const (
	CategorySessionPayment EntryCategory = "session_payment"
	CategorySessionEarning EntryCategory = "session_earning"
	CategoryTopUp          EntryCategory = "topup"
	CategoryRefund         EntryCategory = "refund"
)

// Wallet is a ledger balance for one user in one role. A user who is both a
// client and a creator holds two wallets.
type Wallet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserType  UserType        `json:"user_type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletEntry records a single debit or credit against a wallet. Amount is
// negative for debits, positive for credits.
type WalletEntry struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	UserType      UserType        `json:"user_type"`
	SessionID     string          `json:"session_id,omitempty"`
	Category      EntryCategory   `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}
