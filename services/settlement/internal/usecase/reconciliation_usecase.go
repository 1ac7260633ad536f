package usecase

import (
	"errors"
	"fmt"
	"time"

	"consultly/pkg/logger"
	"consultly/pkg/queue"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase finishes settlements whose wallet mutations did not
// all complete. Tasks arrive from the queue right after a partial failure;
// the periodic sweep catches records whose task was lost (queue down, crash
// between publish attempts).
type ReconciliationUseCase interface {
	Reconcile(task queue.ReconciliationTask) error
	// SweepPending reconciles up to limit pending records and returns how
	// many were completed.
	SweepPending(limit int) (int, error)
}

type reconciliationUseCase struct {
	sessionRepo     persistent.SessionRepository
	walletRepo      persistent.WalletRepository
	transactionRepo persistent.TransactionRepository
	logger          *logger.Logger

	// Records younger than the grace window may belong to a settlement still
	// in flight; the sweep leaves them alone to avoid double-applying a leg.
	graceWindow time.Duration
	now         func() time.Time
}

func NewReconciliationUseCase(
	sessionRepo persistent.SessionRepository,
	walletRepo persistent.WalletRepository,
	transactionRepo persistent.TransactionRepository,
	log *logger.Logger,
) ReconciliationUseCase {
	return &reconciliationUseCase{
		sessionRepo:     sessionRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		logger:          log,
		graceWindow:     5 * time.Minute,
		now:             time.Now,
	}
}

// Reconcile replays the missing wallet leg(s) for one queued task. A task
// whose record is already done (or gone) acks as a no-op: the queue delivers
// at-least-once and the first delivery may have already finished the work.
func (uc *reconciliationUseCase) Reconcile(task queue.ReconciliationTask) error {
	record, err := uc.transactionRepo.GetBySessionID(task.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load transaction record for session %s: %w", task.SessionID, err)
	}
	if record == nil {
		uc.logger.Warn("Reconciliation task for session %s has no transaction record, dropping", task.SessionID)
		return nil
	}
	return uc.reconcileRecord(record)
}

func (uc *reconciliationUseCase) SweepPending(limit int) (int, error) {
	records, err := uc.transactionRepo.ListPending(limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending settlements: %w", err)
	}

	completed := 0
	cutoff := uc.now().Add(-uc.graceWindow)
	for _, record := range records {
		if record.CreatedAt.After(cutoff) {
			continue
		}
		if err := uc.reconcileRecord(record); err != nil {
			uc.logger.Error("Sweep failed to reconcile session %s: %v", record.SessionID, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		uc.logger.Info("Reconciliation sweep completed %d of %d pending settlements", completed, len(records))
	}
	return completed, nil
}

func (uc *reconciliationUseCase) reconcileRecord(record *entity.TransactionRecord) error {
	if record.IsDone {
		return nil
	}

	session, err := uc.sessionRepo.GetByID(record.SessionID)
	if err != nil {
		if errors.Is(err, persistent.ErrSessionNotFound) {
			return fmt.Errorf("session %s missing for pending settlement", record.SessionID)
		}
		return fmt.Errorf("failed to load session %s: %w", record.SessionID, err)
	}

	if record.AmountPaid.IsPositive() {
		if err := uc.replayLeg(session.ClientID, entity.UserTypeClient, record.SessionID,
			entity.CategorySessionPayment, record.AmountPaid.Neg()); err != nil {
			return err
		}
	}
	if record.CreatorAmount.IsPositive() {
		if err := uc.replayLeg(session.CreatorID, entity.UserTypeCreator, record.SessionID,
			entity.CategorySessionEarning, record.CreatorAmount); err != nil {
			return err
		}
	}

	if err := uc.transactionRepo.MarkDone(record.SessionID); err != nil {
		return fmt.Errorf("failed to mark reconciled settlement done for session %s: %w", record.SessionID, err)
	}

	uc.logger.Info("Reconciled settlement for session %s", record.SessionID)
	return nil
}

// replayLeg applies one wallet mutation unless its ledger entry already
// exists. The ledger row, not the balance, is the applied-or-not marker.
func (uc *reconciliationUseCase) replayLeg(userID string, userType entity.UserType, sessionID string, category entity.EntryCategory, amount decimal.Decimal) error {
	exists, err := uc.walletRepo.HasEntry(userID, userType, sessionID, category)
	if err != nil {
		return fmt.Errorf("failed to check ledger for session %s: %w", sessionID, err)
	}
	if exists {
		return nil
	}
	if _, err := uc.walletRepo.ApplyEntry(userID, userType, sessionID, category, amount); err != nil {
		return fmt.Errorf("failed to replay %s for session %s: %w", category, sessionID, err)
	}
	return nil
}
