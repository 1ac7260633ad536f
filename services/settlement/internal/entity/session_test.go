package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SessionStatus
		to   SessionStatus
		want bool
	}{
		{"pending to active", SessionStatusPending, SessionStatusActive, true},
		{"active to payment_pending", SessionStatusActive, SessionStatusPaymentPending, true},
		{"payment_pending to ended", SessionStatusPaymentPending, SessionStatusEnded, true},
		{"pending straight to ended", SessionStatusPending, SessionStatusEnded, true},
		{"same status is idempotent", SessionStatusActive, SessionStatusActive, true},
		{"ended to active", SessionStatusEnded, SessionStatusActive, false},
		{"payment_pending back to active", SessionStatusPaymentPending, SessionStatusActive, false},
		{"active back to pending", SessionStatusActive, SessionStatusPending, false},
		{"unknown source", SessionStatus("cancelled"), SessionStatusEnded, false},
		{"unknown target", SessionStatusPending, SessionStatus("cancelled"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestBillableSeconds(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *time.Time {
		ts := started.Add(d)
		return &ts
	}

	t.Run("whole seconds", func(t *testing.T) {
		s := &Session{StartedAt: &started, EndedAt: at(125 * time.Second)}
		assert.Equal(t, 125, s.BillableSeconds())
	})

	t.Run("sub-second remainder truncates", func(t *testing.T) {
		s := &Session{StartedAt: &started, EndedAt: at(125*time.Second + 900*time.Millisecond)}
		assert.Equal(t, 125, s.BillableSeconds())
	})

	t.Run("never started", func(t *testing.T) {
		s := &Session{EndedAt: at(time.Minute)}
		assert.Equal(t, 0, s.BillableSeconds())
	})

	t.Run("never ended", func(t *testing.T) {
		s := &Session{StartedAt: &started}
		assert.Equal(t, 0, s.BillableSeconds())
	})

	t.Run("clock skew clamps to zero", func(t *testing.T) {
		s := &Session{StartedAt: &started, EndedAt: at(-90 * time.Second)}
		assert.Equal(t, 0, s.BillableSeconds())
	})
}

func TestSessionValidate(t *testing.T) {
	valid := func() *Session {
		return &Session{
			ClientID:  "11111111-1111-1111-1111-111111111111",
			CreatorID: "22222222-2222-2222-2222-222222222222",
			Modality:  ModalityVideo,
		}
	}

	assert.NoError(t, valid().Validate())

	s := valid()
	s.ClientID = ""
	assert.Error(t, s.Validate())

	s = valid()
	s.CreatorID = s.ClientID
	assert.Error(t, s.Validate())

	s = valid()
	s.Modality = "hologram"
	assert.Error(t, s.Validate())

	s = valid()
	s.ScheduledSeconds = -60
	assert.Error(t, s.Validate())

	s = valid()
	s.ScheduledSeconds = 600
	assert.NoError(t, s.Validate())
}

func TestModalityValid(t *testing.T) {
	assert.True(t, ModalityVideo.Valid())
	assert.True(t, ModalityAudio.Valid())
	assert.True(t, ModalityChat.Valid())
	assert.False(t, Modality("").Valid())
	assert.False(t, Modality("screen_share").Valid())
}
