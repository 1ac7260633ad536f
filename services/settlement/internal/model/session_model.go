package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionModel struct {
	ID               string     `gorm:"type:uuid;primary_key" json:"id"`
	ClientID         string     `gorm:"type:uuid;not null;index" json:"client_id"`
	CreatorID        string     `gorm:"type:uuid;not null;index" json:"creator_id"`
	Modality         string     `gorm:"type:varchar(10);not null" json:"modality"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ScheduledSeconds int        `gorm:"default:0" json:"scheduled_seconds"`
	StartedAt        *time.Time `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (s *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
