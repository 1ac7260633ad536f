package persistent

import (
	"errors"

	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	GetOrCreateWallet(userID string, userType entity.UserType) (*entity.Wallet, error)
	// ApplyEntry atomically moves the balance and records the ledger entry.
	// Amount is negative for debits, positive for credits.
	ApplyEntry(userID string, userType entity.UserType, sessionID string, category entity.EntryCategory, amount decimal.Decimal) (*entity.Wallet, error)
	// HasEntry reports whether a ledger entry already exists for the session
	// in the given category. Lets reconciliation replay only the missing leg.
	HasEntry(userID string, userType entity.UserType, sessionID string, category entity.EntryCategory) (bool, error)
	GetEntries(userID string, userType entity.UserType, limit, offset int) ([]*entity.WalletEntry, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreateWallet(userID string, userType entity.UserType) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	err := r.db.Where("user_id = ? AND user_type = ?", userID, string(userType)).First(&walletModel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		walletModel = model.WalletModel{
			ID:       uuid.New().String(),
			UserID:   userID,
			UserType: string(userType),
			Balance:  decimal.Zero,
		}
		if err := r.db.Create(&walletModel).Error; err != nil {
			return nil, err
		}
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) ApplyEntry(userID string, userType entity.UserType, sessionID string, category entity.EntryCategory, amount decimal.Decimal) (*entity.Wallet, error) {
	var result *entity.Wallet

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var walletModel model.WalletModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND user_type = ?", userID, string(userType)).
			First(&walletModel).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			walletModel = model.WalletModel{
				ID:       uuid.New().String(),
				UserID:   userID,
				UserType: string(userType),
				Balance:  decimal.Zero,
			}
			if err := tx.Create(&walletModel).Error; err != nil {
				return err
			}
		}

		balanceBefore := walletModel.Balance
		walletModel.Balance = walletModel.Balance.Add(amount)
		if err := tx.Save(&walletModel).Error; err != nil {
			return err
		}

		entry := model.WalletEntryModel{
			ID:            uuid.New().String(),
			UserID:        userID,
			UserType:      string(userType),
			SessionID:     sessionID,
			Category:      string(category),
			Amount:        amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  walletModel.Balance,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		result = ToWalletEntity(&walletModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *walletRepository) HasEntry(userID string, userType entity.UserType, sessionID string, category entity.EntryCategory) (bool, error) {
	var count int64
	err := r.db.Model(&model.WalletEntryModel{}).
		Where("user_id = ? AND user_type = ? AND session_id = ? AND category = ?",
			userID, string(userType), sessionID, string(category)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *walletRepository) GetEntries(userID string, userType entity.UserType, limit, offset int) ([]*entity.WalletEntry, error) {
	var entryModels []model.WalletEntryModel
	query := r.db.Where("user_id = ? AND user_type = ?", userID, string(userType)).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.WalletEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = ToWalletEntryEntity(&entryModels[i])
	}
	return entries, nil
}
