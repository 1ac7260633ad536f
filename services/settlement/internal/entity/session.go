package entity

import (
	"fmt"
	"time"
)

type Modality string

const (
	ModalityVideo Modality = "video"
	ModalityAudio Modality = "audio"
	ModalityChat  Modality = "chat"
)

func (m Modality) Valid() bool {
	switch m {
	case ModalityVideo, ModalityAudio, ModalityChat:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusPending        SessionStatus = "pending"
	SessionStatusActive         SessionStatus = "active"
	SessionStatusPaymentPending SessionStatus = "payment_pending"
	SessionStatusEnded          SessionStatus = "ended"
)

// statusRank encodes the monotonic forward progression of a session.
// ended is terminal.
var statusRank = map[SessionStatus]int{
	SessionStatusPending:        0,
	SessionStatusActive:         1,
	SessionStatusPaymentPending: 2,
	SessionStatusEnded:          3,
}

// CanTransition reports whether moving from one status to another respects
// the forward-only lifecycle. Same-status writes are allowed (idempotent).
func CanTransition(from, to SessionStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// Session is a single call or chat instance between a client and a creator.
type Session struct {
	ID        string        `json:"id"`
	ClientID  string        `json:"client_id"`
	CreatorID string        `json:"creator_id"`
	Modality  Modality      `json:"modality"`
	Status    SessionStatus `json:"status"`

	// ScheduledSeconds is the allotted duration for scheduled sessions.
	// Zero means open-ended (billed until either party ends the call).
	ScheduledSeconds int `json:"scheduled_seconds,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BillableSeconds returns the elapsed billable duration in whole seconds.
// A session that never started bills zero. Skewed timestamps (ended before
// started) clamp to zero rather than producing a negative duration.
func (s *Session) BillableSeconds() int {
	if s.StartedAt == nil || s.EndedAt == nil {
		return 0
	}
	seconds := int(s.EndedAt.Sub(*s.StartedAt) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

func (s *Session) Validate() error {
	if s.ClientID == "" || s.CreatorID == "" {
		return fmt.Errorf("session requires both client_id and creator_id")
	}
	if s.ClientID == s.CreatorID {
		return fmt.Errorf("client and creator must be different users")
	}
	if !s.Modality.Valid() {
		return fmt.Errorf("invalid modality: %s", s.Modality)
	}
	if s.ScheduledSeconds < 0 {
		return fmt.Errorf("scheduled duration cannot be negative")
	}
	return nil
}
