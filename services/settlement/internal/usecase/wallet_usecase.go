package usecase

import (
	"errors"
	"fmt"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type WalletUseCase interface {
	GetWallet(userID string, userType entity.UserType) (*entity.Wallet, error)
	// AddMoney credits the wallet (topups, earnings adjustments, refunds).
	AddMoney(userID string, userType entity.UserType, amount decimal.Decimal, category entity.EntryCategory) (*entity.Wallet, error)
	// Payout debits the wallet; unlike the settlement path it refuses to
	// take the balance negative.
	Payout(userID string, userType entity.UserType, amount decimal.Decimal, category entity.EntryCategory) (*entity.Wallet, error)
	GetEntries(userID string, userType entity.UserType, limit, offset int) ([]*entity.WalletEntry, error)
}

type walletUseCase struct {
	walletRepo persistent.WalletRepository
	logger     *logger.Logger
}

func NewWalletUseCase(walletRepo persistent.WalletRepository, log *logger.Logger) WalletUseCase {
	return &walletUseCase{
		walletRepo: walletRepo,
		logger:     log,
	}
}

func (uc *walletUseCase) GetWallet(userID string, userType entity.UserType) (*entity.Wallet, error) {
	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, userType)
	if err != nil {
		uc.logger.Error("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) AddMoney(userID string, userType entity.UserType, amount decimal.Decimal, category entity.EntryCategory) (*entity.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if category == "" {
		category = entity.CategoryTopUp
	}

	wallet, err := uc.walletRepo.ApplyEntry(userID, userType, "", category, amount)
	if err != nil {
		uc.logger.Error("Failed to credit wallet for %s/%s: %v", userID, userType, err)
		return nil, fmt.Errorf("failed to add money: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) Payout(userID string, userType entity.UserType, amount decimal.Decimal, category entity.EntryCategory) (*entity.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, userType)
	if err != nil {
		uc.logger.Error("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	wallet, err = uc.walletRepo.ApplyEntry(userID, userType, "", category, amount.Neg())
	if err != nil {
		uc.logger.Error("Failed to debit wallet for %s/%s: %v", userID, userType, err)
		return nil, fmt.Errorf("failed to process payout: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) GetEntries(userID string, userType entity.UserType, limit, offset int) ([]*entity.WalletEntry, error) {
	entries, err := uc.walletRepo.GetEntries(userID, userType, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get wallet entries: %v", err)
		return nil, fmt.Errorf("failed to get wallet entries: %w", err)
	}
	return entries, nil
}
