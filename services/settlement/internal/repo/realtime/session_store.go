package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"consultly/services/settlement/internal/entity"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// SessionStore mirrors session state into Redis so both participants'
// clients observe status and remaining-time changes as they happen. Writes
// go to a per-session hash; a pub/sub channel carries change notifications.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Update is the payload published on a session's channel.
type Update struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"`
	TimeLeft  *int   `json:"time_left,omitempty"`
	EndedAt   string `json:"ended_at,omitempty"`
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func sessionChannel(sessionID string) string {
	return fmt.Sprintf("session_updates:%s", sessionID)
}

func (s *SessionStore) publish(ctx context.Context, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, sessionChannel(update.SessionID), payload).Err()
}

// SetStatus writes the session status and notifies subscribers.
func (s *SessionStore) SetStatus(ctx context.Context, sessionID string, status entity.SessionStatus) error {
	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, "status", string(status)).Err(); err != nil {
		return fmt.Errorf("failed to write session status: %w", err)
	}
	s.client.Expire(ctx, key, sessionTTL)
	return s.publish(ctx, Update{SessionID: sessionID, Status: string(status)})
}

// SetStarted records activation time alongside the status flip to active.
func (s *SessionStore) SetStarted(ctx context.Context, sessionID string, startedAt time.Time) error {
	key := sessionKey(sessionID)
	err := s.client.HSet(ctx, key,
		"status", string(entity.SessionStatusActive),
		"started_at", startedAt.UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to write session start: %w", err)
	}
	s.client.Expire(ctx, key, sessionTTL)
	return s.publish(ctx, Update{SessionID: sessionID, Status: string(entity.SessionStatusActive)})
}

// SetEnded marks the session terminal for all connected viewers. Settlement
// outcome does not gate this write: the call is over regardless of billing.
func (s *SessionStore) SetEnded(ctx context.Context, sessionID string, endedAt time.Time) error {
	key := sessionKey(sessionID)
	ended := endedAt.UTC().Format(time.RFC3339)
	err := s.client.HSet(ctx, key,
		"status", string(entity.SessionStatusEnded),
		"ended_at", ended,
		"time_left", 0,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to write session end: %w", err)
	}
	s.client.Expire(ctx, key, sessionTTL)
	zero := 0
	return s.publish(ctx, Update{
		SessionID: sessionID,
		Status:    string(entity.SessionStatusEnded),
		TimeLeft:  &zero,
		EndedAt:   ended,
	})
}

// SetTimeLeft pushes the remaining allotted seconds for scheduled sessions.
func (s *SessionStore) SetTimeLeft(ctx context.Context, sessionID string, seconds int) error {
	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, "time_left", seconds).Err(); err != nil {
		return fmt.Errorf("failed to write time_left: %w", err)
	}
	return s.publish(ctx, Update{SessionID: sessionID, TimeLeft: &seconds})
}

// Get returns the raw session document fields.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session document: %w", err)
	}
	return fields, nil
}

// Subscribe delivers updates for one session until the context is cancelled.
func (s *SessionStore) Subscribe(ctx context.Context, sessionID string) (<-chan Update, func()) {
	pubsub := s.client.Subscribe(ctx, sessionChannel(sessionID))
	updates := make(chan Update)

	go func() {
		defer close(updates)
		for msg := range pubsub.Channel() {
			var update Update
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				continue
			}
			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, func() { pubsub.Close() }
}
