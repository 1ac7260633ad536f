package persistent

import (
	"errors"
	"time"

	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *entity.Session) (*entity.Session, error)
	GetByID(id string) (*entity.Session, error)
	Start(id string, startedAt time.Time) error
	Finish(id string, endedAt time.Time) error
	UpdateStatus(id string, status entity.SessionStatus) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *entity.Session) (*entity.Session, error) {
	sessionModel := ToSessionModel(session)
	if sessionModel.ID == "" {
		sessionModel.ID = uuid.New().String()
	}
	if sessionModel.Status == "" {
		sessionModel.Status = string(entity.SessionStatusPending)
	}
	if err := r.db.Create(sessionModel).Error; err != nil {
		return nil, err
	}
	return ToSessionEntity(sessionModel), nil
}

func (r *sessionRepository) GetByID(id string) (*entity.Session, error) {
	var sessionModel model.SessionModel
	if err := r.db.Where("id = ?", id).First(&sessionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return ToSessionEntity(&sessionModel), nil
}

// Start records the activation timestamp. started_at is write-once: a second
// call is a no-op so the billing window cannot be moved after the fact.
func (r *sessionRepository) Start(id string, startedAt time.Time) error {
	return r.db.Model(&model.SessionModel{}).
		Where("id = ? AND started_at IS NULL", id).
		Updates(map[string]interface{}{
			"started_at": startedAt,
			"status":     string(entity.SessionStatusActive),
		}).Error
}

// Finish records the end timestamp, also write-once.
func (r *sessionRepository) Finish(id string, endedAt time.Time) error {
	return r.db.Model(&model.SessionModel{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at": endedAt,
			"status":   string(entity.SessionStatusPaymentPending),
		}).Error
}

func (r *sessionRepository) UpdateStatus(id string, status entity.SessionStatus) error {
	return r.db.Model(&model.SessionModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}
