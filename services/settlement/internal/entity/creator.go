package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Creator is the service-providing user being paid per minute. Rates are
// kept per modality, with a separate set for clients billed in the global
// currency. The Global flag on the profile selects which set applies.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Global   bool   `json:"global"`

	VideoRate decimal.Decimal `json:"video_rate"`
	AudioRate decimal.Decimal `json:"audio_rate"`
	ChatRate  decimal.Decimal `json:"chat_rate"`

	GlobalVideoRate decimal.Decimal `json:"global_video_rate"`
	GlobalAudioRate decimal.Decimal `json:"global_audio_rate"`
	GlobalChatRate  decimal.Decimal `json:"global_chat_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RateFor returns the per-minute rate for the given modality, honouring the
// Global flag.
func (c *Creator) RateFor(modality Modality) decimal.Decimal {
	if c.Global {
		switch modality {
		case ModalityVideo:
			return c.GlobalVideoRate
		case ModalityAudio:
			return c.GlobalAudioRate
		case ModalityChat:
			return c.GlobalChatRate
		}
		return decimal.Zero
	}

	switch modality {
	case ModalityVideo:
		return c.VideoRate
	case ModalityAudio:
		return c.AudioRate
	case ModalityChat:
		return c.ChatRate
	}
	return decimal.Zero
}
