package timer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/usecase"

	"github.com/stretchr/testify/assert"
)

type fakeSettler struct {
	mu       sync.Mutex
	sessions []string
	calls    int32
}

func (s *fakeSettler) Settle(ctx context.Context, sessionID string) (*usecase.SettlementResult, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.sessions = append(s.sessions, sessionID)
	s.mu.Unlock()
	return &usecase.SettlementResult{SessionID: sessionID}, nil
}

func (s *fakeSettler) count() int32 {
	return atomic.LoadInt32(&s.calls)
}

func TestRemaining(t *testing.T) {
	startsAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		duration time.Duration
		now      time.Time
		want     time.Duration
	}{
		{"just started", 10 * time.Minute, startsAt, 10 * time.Minute},
		{"halfway", 10 * time.Minute, startsAt.Add(5 * time.Minute), 5 * time.Minute},
		{"one second left", 10 * time.Minute, startsAt.Add(599 * time.Second), time.Second},
		{"exactly exhausted", 10 * time.Minute, startsAt.Add(10 * time.Minute), 0},
		{"past expiry", 10 * time.Minute, startsAt.Add(11 * time.Minute), -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(startsAt, tt.duration, tt.now))
		})
	}
}

func TestRemaining_DerivedNotAccumulated(t *testing.T) {
	// Recomputing from the wall clock means a stalled caller still sees the
	// true remaining time, not one frozen at the last observation.
	startsAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	late := startsAt.Add(7*time.Minute + 13*time.Second)
	assert.Equal(t, 2*time.Minute+47*time.Second, Remaining(startsAt, 10*time.Minute, late))
}

func TestStateFor(t *testing.T) {
	threshold := time.Minute

	assert.Equal(t, StateRunning, StateFor(5*time.Minute, threshold))
	assert.Equal(t, StateLowTime, StateFor(time.Minute, threshold))
	assert.Equal(t, StateLowTime, StateFor(time.Second, threshold))
	assert.Equal(t, StateExpired, StateFor(0, threshold))
	assert.Equal(t, StateExpired, StateFor(-time.Second, threshold))
}

func TestController_SettlesExactlyOnceOnExpiry(t *testing.T) {
	settler := &fakeSettler{}
	c := NewController(settler, nil, logger.New(), time.Minute)
	c.tick = 5 * time.Millisecond

	err := c.Start("session-1", time.Now(), 30*time.Millisecond)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return settler.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Once settled the session is no longer tracked and further ticks cannot
	// settle it again
	assert.Eventually(t, func() bool {
		return c.StateOf("session-1") == StateIdle
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), settler.count())
}

func TestController_StopBeforeExpiry(t *testing.T) {
	settler := &fakeSettler{}
	c := NewController(settler, nil, logger.New(), time.Minute)
	c.tick = 5 * time.Millisecond

	err := c.Start("session-1", time.Now(), time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, StateRunning, c.StateOf("session-1"))

	c.Stop("session-1")
	assert.Equal(t, StateIdle, c.StateOf("session-1"))

	// A stopped countdown never forces settlement
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), settler.count())
}

func TestController_RejectsDuplicateStart(t *testing.T) {
	c := NewController(&fakeSettler{}, nil, logger.New(), time.Minute)
	c.tick = time.Hour // never tick during the test

	assert.NoError(t, c.Start("session-1", time.Now(), time.Hour))
	assert.Error(t, c.Start("session-1", time.Now(), time.Hour))

	c.Stop("session-1")
	assert.NoError(t, c.Start("session-1", time.Now(), time.Hour))
	c.Stop("session-1")
}

func TestController_RejectsNonPositiveDuration(t *testing.T) {
	c := NewController(&fakeSettler{}, nil, logger.New(), time.Minute)

	assert.Error(t, c.Start("session-1", time.Now(), 0))
	assert.Error(t, c.Start("session-1", time.Now(), -time.Minute))
	assert.Equal(t, StateIdle, c.StateOf("session-1"))
}

func TestController_LowTimeState(t *testing.T) {
	settler := &fakeSettler{}
	c := NewController(settler, nil, logger.New(), 50*time.Millisecond)
	c.tick = 5 * time.Millisecond

	// 80ms allotted with a 50ms low-time threshold: the countdown must pass
	// through low_time before it expires.
	err := c.Start("session-1", time.Now(), 80*time.Millisecond)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return c.StateOf("session-1") == StateLowTime
	}, 2*time.Second, time.Millisecond)

	assert.Eventually(t, func() bool {
		return settler.count() == 1
	}, 2*time.Second, 5*time.Millisecond)
}
