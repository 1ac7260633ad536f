package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"consultly/pkg/logger"
	"consultly/pkg/queue"
	"consultly/pkg/s3"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

var (
	ErrCreatorNotFound      = errors.New("creator not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSettlementIncomplete = errors.New("settlement incomplete")
)

// SettlementResult reports what one settlement attempt charged and paid out.
// AlreadySettled means a prior attempt (possibly by the other participant's
// client) won and no new wallet mutation was issued.
type SettlementResult struct {
	SessionID       string          `json:"session_id"`
	AlreadySettled  bool            `json:"already_settled"`
	DurationSeconds int             `json:"duration_seconds"`
	Gross           decimal.Decimal `json:"gross"`
	Commission      decimal.Decimal `json:"commission"`
	CreatorNet      decimal.Decimal `json:"creator_net"`
}

type SettlementUseCase interface {
	Settle(ctx context.Context, sessionID string) (*SettlementResult, error)
}

type settlementUseCase struct {
	sessionRepo     persistent.SessionRepository
	creatorRepo     persistent.CreatorRepository
	walletRepo      persistent.WalletRepository
	transactionRepo persistent.TransactionRepository
	statusStore     StatusSyncer
	queueClient     *queue.Client
	s3Client        *s3.Client
	logger          *logger.Logger
	commissionRate  decimal.Decimal
	now             func() time.Time
}

func NewSettlementUseCase(
	sessionRepo persistent.SessionRepository,
	creatorRepo persistent.CreatorRepository,
	walletRepo persistent.WalletRepository,
	transactionRepo persistent.TransactionRepository,
	statusStore StatusSyncer,
	queueClient *queue.Client,
	s3Client *s3.Client,
	log *logger.Logger,
	commissionRate float64,
) SettlementUseCase {
	return &settlementUseCase{
		sessionRepo:     sessionRepo,
		creatorRepo:     creatorRepo,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		statusStore:     statusStore,
		queueClient:     queueClient,
		s3Client:        s3Client,
		logger:          log,
		commissionRate:  decimal.NewFromFloat(commissionRate),
		now:             time.Now,
	}
}

// Settle charges the client and pays out the creator for a finished session,
// at most once per session id. The sequence is: idempotency check -> rate
// lookup (fail closed) -> pending transaction record (the unique index on
// session_id is the race arbiter) -> wallet debit+credit -> mark done ->
// status sync. A partial wallet failure leaves the record pending and
// publishes a reconciliation task instead of rolling anything back.
func (uc *settlementUseCase) Settle(ctx context.Context, sessionID string) (*SettlementResult, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, persistent.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	// Fast path. The check only avoids pointless work; correctness comes
	// from the insert below colliding on the unique session_id index.
	existing, err := uc.transactionRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing settlement: %w", err)
	}
	if existing != nil {
		uc.logger.Info("Session %s already settled, syncing status only", sessionID)
		uc.syncEnded(ctx, session)
		return replayResult(existing), nil
	}

	// Rate lookup fails closed: no creator record means no charge, never a
	// free session billed at rate zero.
	creator, err := uc.creatorRepo.GetByID(session.CreatorID)
	if err != nil {
		if errors.Is(err, persistent.ErrCreatorNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("rate lookup failed for creator %s: %w", session.CreatorID, err)
	}
	rate := creator.RateFor(session.Modality)

	if session.EndedAt == nil {
		endedAt := uc.now()
		if err := uc.sessionRepo.Finish(sessionID, endedAt); err != nil {
			return nil, fmt.Errorf("failed to record session end: %w", err)
		}
		session.EndedAt = &endedAt
	}
	if session.StartedAt != nil && session.EndedAt.Before(*session.StartedAt) {
		uc.logger.Warn("Session %s ended before it started (clock skew), billing zero seconds", sessionID)
	}

	duration := session.BillableSeconds()
	breakdown := ComputeSettlement(duration, rate, uc.commissionRate)

	// Durability checkpoint before any money moves.
	record, err := uc.transactionRepo.Create(&entity.TransactionRecord{
		SessionID:       sessionID,
		AmountPaid:      breakdown.Gross,
		CreatorAmount:   breakdown.CreatorNet,
		Commission:      breakdown.Commission,
		DurationSeconds: duration,
		IsDone:          false,
	})
	if err != nil {
		if errors.Is(err, persistent.ErrDuplicateSession) {
			// Lost the race to a concurrent completion; their settlement stands.
			uc.logger.Info("Concurrent settlement won for session %s, skipping wallet mutation", sessionID)
			uc.syncEnded(ctx, session)
			winner, lookupErr := uc.transactionRepo.GetBySessionID(sessionID)
			if lookupErr != nil || winner == nil {
				return &SettlementResult{SessionID: sessionID, AlreadySettled: true}, nil
			}
			return replayResult(winner), nil
		}
		return nil, fmt.Errorf("failed to create transaction record: %w", err)
	}

	result := &SettlementResult{
		SessionID:       sessionID,
		DurationSeconds: duration,
		Gross:           breakdown.Gross,
		Commission:      breakdown.Commission,
		CreatorNet:      breakdown.CreatorNet,
	}

	// Nothing owed (session never started, or zero rate): the record alone
	// marks the session settled.
	if breakdown.Gross.IsZero() {
		if err := uc.transactionRepo.MarkDone(sessionID); err != nil {
			uc.logger.Error("Failed to mark zero-amount settlement done for session %s: %v", sessionID, err)
		}
		uc.finishSession(ctx, session)
		return result, nil
	}

	// Debit and credit are issued together and both awaited before the flow
	// proceeds; no ordering is assumed between them.
	var wg sync.WaitGroup
	var debitErr, creditErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, debitErr = uc.walletRepo.ApplyEntry(session.ClientID, entity.UserTypeClient, sessionID, entity.CategorySessionPayment, breakdown.Gross.Neg())
	}()
	go func() {
		defer wg.Done()
		_, creditErr = uc.walletRepo.ApplyEntry(session.CreatorID, entity.UserTypeCreator, sessionID, entity.CategorySessionEarning, breakdown.CreatorNet)
	}()
	wg.Wait()

	if debitErr != nil || creditErr != nil {
		step, reason := "client_debit", ""
		if debitErr != nil {
			reason = debitErr.Error()
		} else {
			step, reason = "creator_credit", creditErr.Error()
		}
		uc.logger.Error("Wallet mutation failed for session %s at %s: debit=%v credit=%v", sessionID, step, debitErr, creditErr)
		uc.publishReconciliation(session, breakdown, step, reason)
		// The call is over regardless of the billing outcome.
		uc.finishSession(ctx, session)
		return nil, fmt.Errorf("%w: %s failed for session %s", ErrSettlementIncomplete, step, sessionID)
	}

	if err := uc.transactionRepo.MarkDone(sessionID); err != nil {
		// Money moved; only the done flag is missing. Reconciliation will
		// observe both ledger entries and finish the flip.
		uc.logger.Error("Failed to mark settlement done for session %s: %v", sessionID, err)
		uc.publishReconciliation(session, breakdown, "mark_done", err.Error())
		uc.finishSession(ctx, session)
		return nil, fmt.Errorf("%w: mark done failed for session %s", ErrSettlementIncomplete, sessionID)
	}
	record.IsDone = true

	uc.finishSession(ctx, session)
	uc.archiveReceipt(record)

	uc.logger.Info("Settled session %s: %ds, gross=%s, commission=%s, creator=%s",
		sessionID, duration, breakdown.Gross, breakdown.Commission, breakdown.CreatorNet)
	return result, nil
}

func replayResult(record *entity.TransactionRecord) *SettlementResult {
	return &SettlementResult{
		SessionID:       record.SessionID,
		AlreadySettled:  true,
		DurationSeconds: record.DurationSeconds,
		Gross:           record.AmountPaid,
		Commission:      record.Commission,
		CreatorNet:      record.CreatorAmount,
	}
}

// finishSession moves the persisted session to ended and mirrors the terminal
// state into the realtime store. Failures are logged, never surfaced: both
// participants' UIs still need to observe the call ending.
func (uc *settlementUseCase) finishSession(ctx context.Context, session *entity.Session) {
	if err := uc.sessionRepo.UpdateStatus(session.ID, entity.SessionStatusEnded); err != nil {
		uc.logger.Error("Failed to mark session %s ended: %v", session.ID, err)
	}
	uc.syncEnded(ctx, session)
}

func (uc *settlementUseCase) syncEnded(ctx context.Context, session *entity.Session) {
	if uc.statusStore == nil {
		return
	}
	endedAt := uc.now()
	if session.EndedAt != nil {
		endedAt = *session.EndedAt
	}
	if err := uc.statusStore.SetEnded(ctx, session.ID, endedAt); err != nil {
		uc.logger.Error("Failed to sync ended status for session %s: %v", session.ID, err)
	}
}

func (uc *settlementUseCase) publishReconciliation(session *entity.Session, breakdown Breakdown, step, reason string) {
	if uc.queueClient == nil {
		uc.logger.Warn("Reconciliation queue unavailable, session %s left pending (%s)", session.ID, step)
		return
	}
	task := queue.ReconciliationTask{
		SessionID:     session.ID,
		ClientID:      session.ClientID,
		CreatorID:     session.CreatorID,
		GrossAmount:   breakdown.Gross.String(),
		CreatorAmount: breakdown.CreatorNet.String(),
		FailedStep:    step,
		Reason:        reason,
		OccurredAt:    uc.now(),
	}
	if err := uc.queueClient.PublishReconciliationTask(task); err != nil {
		uc.logger.Error("Failed to publish reconciliation task for session %s: %v", session.ID, err)
	}
}

// archiveReceipt uploads the final settlement record to S3, best effort.
func (uc *settlementUseCase) archiveReceipt(record *entity.TransactionRecord) {
	if uc.s3Client == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		uc.logger.Error("Failed to marshal receipt for session %s: %v", record.SessionID, err)
		return
	}
	if _, err := uc.s3Client.UploadReceipt(record.SessionID, payload); err != nil {
		uc.logger.Error("Failed to archive receipt for session %s: %v", record.SessionID, err)
	}
}
