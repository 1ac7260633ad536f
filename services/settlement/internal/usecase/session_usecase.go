package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"
)

var ErrInvalidTransition = errors.New("invalid session status transition")

// TimerStarter is implemented by the scheduled-session timer controller.
// Declared here so the usecase layer does not depend on the timer package.
type TimerStarter interface {
	Start(sessionID string, startsAt time.Time, callDuration time.Duration) error
	Stop(sessionID string)
}

// StatusSyncer mirrors session state into the realtime store so connected
// clients observe lifecycle changes. Implemented by realtime.SessionStore.
type StatusSyncer interface {
	SetStatus(ctx context.Context, sessionID string, status entity.SessionStatus) error
	SetStarted(ctx context.Context, sessionID string, startedAt time.Time) error
	SetEnded(ctx context.Context, sessionID string, endedAt time.Time) error
	Get(ctx context.Context, sessionID string) (map[string]string, error)
}

type CreateSessionInput struct {
	ClientID         string
	CreatorID        string
	Modality         entity.Modality
	ScheduledSeconds int
}

type SessionUseCase interface {
	Create(ctx context.Context, input CreateSessionInput) (*entity.Session, error)
	Activate(ctx context.Context, sessionID string) (*entity.Session, error)
	End(ctx context.Context, sessionID string) (*SettlementResult, error)
	Get(ctx context.Context, sessionID string) (*entity.Session, map[string]string, error)
}

type sessionUseCase struct {
	sessionRepo persistent.SessionRepository
	creatorRepo persistent.CreatorRepository
	settlement  SettlementUseCase
	statusStore StatusSyncer
	timer       TimerStarter
	logger      *logger.Logger
	now         func() time.Time
}

func NewSessionUseCase(
	sessionRepo persistent.SessionRepository,
	creatorRepo persistent.CreatorRepository,
	settlement SettlementUseCase,
	statusStore StatusSyncer,
	timer TimerStarter,
	log *logger.Logger,
) SessionUseCase {
	return &sessionUseCase{
		sessionRepo: sessionRepo,
		creatorRepo: creatorRepo,
		settlement:  settlement,
		statusStore: statusStore,
		timer:       timer,
		logger:      log,
		now:         time.Now,
	}
}

func (uc *sessionUseCase) Create(ctx context.Context, input CreateSessionInput) (*entity.Session, error) {
	session := &entity.Session{
		ClientID:         input.ClientID,
		CreatorID:        input.CreatorID,
		Modality:         input.Modality,
		ScheduledSeconds: input.ScheduledSeconds,
		Status:           entity.SessionStatusPending,
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}

	// A session against an unknown creator could never settle; reject early.
	if _, err := uc.creatorRepo.GetByID(input.CreatorID); err != nil {
		if errors.Is(err, persistent.ErrCreatorNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	created, err := uc.sessionRepo.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if uc.statusStore != nil {
		if err := uc.statusStore.SetStatus(ctx, created.ID, entity.SessionStatusPending); err != nil {
			uc.logger.Error("Failed to sync pending status for session %s: %v", created.ID, err)
		}
	}

	uc.logger.Info("Created %s session %s (client=%s, creator=%s)", created.Modality, created.ID, created.ClientID, created.CreatorID)
	return created, nil
}

// Activate sets the billing start of the session. For scheduled sessions the
// countdown timer starts here and will force settlement when the allotted
// time runs out.
func (uc *sessionUseCase) Activate(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, persistent.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !entity.CanTransition(session.Status, entity.SessionStatusActive) {
		return nil, fmt.Errorf("%w: %s -> active", ErrInvalidTransition, session.Status)
	}
	if session.Status == entity.SessionStatusActive {
		return session, nil
	}

	startedAt := uc.now()
	if err := uc.sessionRepo.Start(sessionID, startedAt); err != nil {
		return nil, fmt.Errorf("failed to activate session: %w", err)
	}
	session.StartedAt = &startedAt
	session.Status = entity.SessionStatusActive

	if uc.statusStore != nil {
		if err := uc.statusStore.SetStarted(ctx, sessionID, startedAt); err != nil {
			uc.logger.Error("Failed to sync active status for session %s: %v", sessionID, err)
		}
	}

	if session.ScheduledSeconds > 0 && uc.timer != nil {
		duration := time.Duration(session.ScheduledSeconds) * time.Second
		if err := uc.timer.Start(sessionID, startedAt, duration); err != nil {
			uc.logger.Error("Failed to start countdown for session %s: %v", sessionID, err)
		}
	}

	return session, nil
}

// End finishes the session on a participant's request and settles it. The
// timer, if any, is stopped first so expiry cannot fire a second settlement
// attempt (the idempotency guard would absorb it anyway).
func (uc *sessionUseCase) End(ctx context.Context, sessionID string) (*SettlementResult, error) {
	if uc.timer != nil {
		uc.timer.Stop(sessionID)
	}

	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, persistent.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.EndedAt == nil {
		if err := uc.sessionRepo.Finish(sessionID, uc.now()); err != nil {
			return nil, fmt.Errorf("failed to end session: %w", err)
		}
	}

	return uc.settlement.Settle(ctx, sessionID)
}

func (uc *sessionUseCase) Get(ctx context.Context, sessionID string) (*entity.Session, map[string]string, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, persistent.ErrSessionNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	var doc map[string]string
	if uc.statusStore != nil {
		doc, err = uc.statusStore.Get(ctx, sessionID)
		if err != nil {
			uc.logger.Warn("Failed to read realtime document for session %s: %v", sessionID, err)
			doc = nil
		}
	}

	return session, doc, nil
}
