package persistent

import (
	"errors"

	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateSession is returned when a settlement record already exists for
// the session. The unique index on transactions.session_id is the arbiter:
// application-level existence checks are an optimization only.
var ErrDuplicateSession = errors.New("transaction already exists for session")

type TransactionRepository interface {
	// GetBySessionID returns (nil, nil) when no record exists.
	GetBySessionID(sessionID string) (*entity.TransactionRecord, error)
	Create(record *entity.TransactionRecord) (*entity.TransactionRecord, error)
	MarkDone(sessionID string) error
	ListPending(limit int) ([]*entity.TransactionRecord, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetBySessionID(sessionID string) (*entity.TransactionRecord, error) {
	var transactionModel model.TransactionModel
	if err := r.db.Where("session_id = ?", sessionID).First(&transactionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToTransactionEntity(&transactionModel), nil
}

func (r *transactionRepository) Create(record *entity.TransactionRecord) (*entity.TransactionRecord, error) {
	transactionModel := ToTransactionModel(record)
	if transactionModel.ID == "" {
		transactionModel.ID = uuid.New().String()
	}
	if err := r.db.Create(transactionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSession
		}
		return nil, err
	}
	return ToTransactionEntity(transactionModel), nil
}

func (r *transactionRepository) MarkDone(sessionID string) error {
	return r.db.Model(&model.TransactionModel{}).
		Where("session_id = ?", sessionID).
		Update("is_done", true).Error
}

// ListPending returns settlements whose wallet mutations have not completed,
// oldest first, for the reconciliation worker.
func (r *transactionRepository) ListPending(limit int) ([]*entity.TransactionRecord, error) {
	var transactionModels []model.TransactionModel
	query := r.db.Where("is_done = ?", false).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	records := make([]*entity.TransactionRecord, len(transactionModels))
	for i := range transactionModels {
		records[i] = ToTransactionEntity(&transactionModels[i])
	}
	return records, nil
}
