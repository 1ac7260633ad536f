package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatorModel struct {
	ID       string `gorm:"type:uuid;primary_key" json:"id"`
	Username string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Global   bool   `gorm:"default:false" json:"global"`

	VideoRate decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"video_rate"`
	AudioRate decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"audio_rate"`
	ChatRate  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"chat_rate"`

	GlobalVideoRate decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"global_video_rate"`
	GlobalAudioRate decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"global_audio_rate"`
	GlobalChatRate  decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"global_chat_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CreatorModel) TableName() string {
	return "creators"
}

func (c *CreatorModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
