package persistent

import (
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"
)

func ToSessionEntity(m *model.SessionModel) *entity.Session {
	if m == nil {
		return nil
	}

	return &entity.Session{
		ID:               m.ID,
		ClientID:         m.ClientID,
		CreatorID:        m.CreatorID,
		Modality:         entity.Modality(m.Modality),
		Status:           entity.SessionStatus(m.Status),
		ScheduledSeconds: m.ScheduledSeconds,
		StartedAt:        m.StartedAt,
		EndedAt:          m.EndedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToSessionModel(e *entity.Session) *model.SessionModel {
	if e == nil {
		return nil
	}

	return &model.SessionModel{
		ID:               e.ID,
		ClientID:         e.ClientID,
		CreatorID:        e.CreatorID,
		Modality:         string(e.Modality),
		Status:           string(e.Status),
		ScheduledSeconds: e.ScheduledSeconds,
		StartedAt:        e.StartedAt,
		EndedAt:          e.EndedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ToCreatorEntity(m *model.CreatorModel) *entity.Creator {
	if m == nil {
		return nil
	}

	return &entity.Creator{
		ID:              m.ID,
		Username:        m.Username,
		Global:          m.Global,
		VideoRate:       m.VideoRate,
		AudioRate:       m.AudioRate,
		ChatRate:        m.ChatRate,
		GlobalVideoRate: m.GlobalVideoRate,
		GlobalAudioRate: m.GlobalAudioRate,
		GlobalChatRate:  m.GlobalChatRate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		UserType:  entity.UserType(m.UserType),
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToWalletEntryEntity(m *model.WalletEntryModel) *entity.WalletEntry {
	if m == nil {
		return nil
	}

	return &entity.WalletEntry{
		ID:            m.ID,
		UserID:        m.UserID,
		UserType:      entity.UserType(m.UserType),
		SessionID:     m.SessionID,
		Category:      entity.EntryCategory(m.Category),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		CreatedAt:     m.CreatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.TransactionRecord {
	if m == nil {
		return nil
	}

	return &entity.TransactionRecord{
		ID:              m.ID,
		SessionID:       m.SessionID,
		AmountPaid:      m.AmountPaid,
		CreatorAmount:   m.CreatorAmount,
		Commission:      m.Commission,
		DurationSeconds: m.DurationSeconds,
		IsDone:          m.IsDone,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToTransactionModel(e *entity.TransactionRecord) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:              e.ID,
		SessionID:       e.SessionID,
		AmountPaid:      e.AmountPaid,
		CreatorAmount:   e.CreatorAmount,
		Commission:      e.Commission,
		DurationSeconds: e.DurationSeconds,
		IsDone:          e.IsDone,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
