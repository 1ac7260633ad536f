package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/repo/realtime"
	"consultly/services/settlement/internal/usecase"
)

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateLowTime  State = "low_time"
	StateExpired  State = "expired"
	StateSettling State = "settling"
	StateDone     State = "done"
)

// Settler runs the settlement flow when a scheduled session's time runs out.
type Settler interface {
	Settle(ctx context.Context, sessionID string) (*usecase.SettlementResult, error)
}

// Remaining derives the time left from the wall clock. It is recomputed on
// every tick rather than decremented, so tick drift or a delayed tick never
// desynchronizes the countdown from real elapsed time.
func Remaining(startsAt time.Time, callDuration time.Duration, now time.Time) time.Duration {
	return startsAt.Add(callDuration).Sub(now)
}

// StateFor maps remaining time onto the countdown state. The low-time state
// only changes UI emphasis; expiry is what forces termination.
func StateFor(remaining, lowTimeThreshold time.Duration) State {
	switch {
	case remaining <= 0:
		return StateExpired
	case remaining <= lowTimeThreshold:
		return StateLowTime
	default:
		return StateRunning
	}
}

type countdown struct {
	sessionID    string
	startsAt     time.Time
	callDuration time.Duration
	state        State
	cancel       chan struct{}
}

// Controller runs one countdown per scheduled session and forces settlement
// when the allotted time is exhausted.
type Controller struct {
	settler          Settler
	statusStore      *realtime.SessionStore
	logger           *logger.Logger
	lowTimeThreshold time.Duration
	tick             time.Duration
	now              func() time.Time

	mu       sync.Mutex
	sessions map[string]*countdown
}

func NewController(settler Settler, statusStore *realtime.SessionStore, log *logger.Logger, lowTimeThreshold time.Duration) *Controller {
	return &Controller{
		settler:          settler,
		statusStore:      statusStore,
		logger:           log,
		lowTimeThreshold: lowTimeThreshold,
		tick:             time.Second,
		now:              time.Now,
		sessions:         make(map[string]*countdown),
	}
}

// Start begins ticking down a scheduled session. Starting an already tracked
// session is an error; restart requires an explicit Stop first.
func (c *Controller) Start(sessionID string, startsAt time.Time, callDuration time.Duration) error {
	if callDuration <= 0 {
		return fmt.Errorf("call duration must be positive")
	}

	c.mu.Lock()
	if _, exists := c.sessions[sessionID]; exists {
		c.mu.Unlock()
		return fmt.Errorf("countdown already running for session %s", sessionID)
	}
	cd := &countdown{
		sessionID:    sessionID,
		startsAt:     startsAt,
		callDuration: callDuration,
		state:        StateRunning,
		cancel:       make(chan struct{}),
	}
	c.sessions[sessionID] = cd
	c.mu.Unlock()

	c.logger.Info("Countdown started for session %s: %s allotted", sessionID, callDuration)
	go c.run(cd)
	return nil
}

// Stop tears down the countdown, e.g. when a participant ends the call
// before time runs out. Any settlement already in flight is not cancelled;
// money movements are never abandoned because a timer went away.
func (c *Controller) Stop(sessionID string) {
	c.mu.Lock()
	cd, exists := c.sessions[sessionID]
	if exists {
		delete(c.sessions, sessionID)
	}
	c.mu.Unlock()

	if exists {
		close(cd.cancel)
		c.logger.Info("Countdown stopped for session %s", sessionID)
	}
}

// StateOf reports the countdown state, or idle when the session is not
// tracked (never started, or already finished).
func (c *Controller) StateOf(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cd, exists := c.sessions[sessionID]; exists {
		return cd.state
	}
	return StateIdle
}

func (c *Controller) run(cd *countdown) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-cd.cancel:
			return
		case <-ticker.C:
			remaining := Remaining(cd.startsAt, cd.callDuration, c.now())
			next := StateFor(remaining, c.lowTimeThreshold)

			c.mu.Lock()
			cd.state = next
			c.mu.Unlock()

			if next != StateExpired {
				c.pushTimeLeft(cd.sessionID, remaining)
				continue
			}

			c.expire(cd)
			return
		}
	}
}

func (c *Controller) pushTimeLeft(sessionID string, remaining time.Duration) {
	if c.statusStore == nil {
		return
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.statusStore.SetTimeLeft(ctx, sessionID, seconds); err != nil {
		c.logger.Warn("Failed to push time_left for session %s: %v", sessionID, err)
	}
}

// expire drives expired -> settling -> done. Settlement runs on a background
// context: once time is up the charge must complete even if callers go away.
func (c *Controller) expire(cd *countdown) {
	c.logger.Info("Allotted time exhausted for session %s, forcing settlement", cd.sessionID)
	c.pushTimeLeft(cd.sessionID, 0)

	c.mu.Lock()
	cd.state = StateSettling
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := c.settler.Settle(ctx, cd.sessionID); err != nil {
		c.logger.Error("Forced settlement failed for session %s: %v", cd.sessionID, err)
	}

	c.mu.Lock()
	cd.state = StateDone
	delete(c.sessions, cd.sessionID)
	c.mu.Unlock()
}
