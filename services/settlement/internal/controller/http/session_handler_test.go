package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubSessionUseCase struct {
	createErr error
	endResult *usecase.SettlementResult
	endErr    error
	session   *entity.Session
}

func (s *stubSessionUseCase) Create(ctx context.Context, input usecase.CreateSessionInput) (*entity.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &entity.Session{
		ID:        "session-1",
		ClientID:  input.ClientID,
		CreatorID: input.CreatorID,
		Modality:  input.Modality,
		Status:    entity.SessionStatusPending,
	}, nil
}

func (s *stubSessionUseCase) Activate(ctx context.Context, sessionID string) (*entity.Session, error) {
	if s.session == nil {
		return nil, usecase.ErrSessionNotFound
	}
	if s.session.Status != entity.SessionStatusPending {
		return nil, usecase.ErrInvalidTransition
	}
	s.session.Status = entity.SessionStatusActive
	return s.session, nil
}

func (s *stubSessionUseCase) End(ctx context.Context, sessionID string) (*usecase.SettlementResult, error) {
	if s.endErr != nil {
		return nil, s.endErr
	}
	return s.endResult, nil
}

func (s *stubSessionUseCase) Get(ctx context.Context, sessionID string) (*entity.Session, map[string]string, error) {
	if s.session == nil {
		return nil, nil, usecase.ErrSessionNotFound
	}
	return s.session, map[string]string{"status": string(s.session.Status)}, nil
}

func setupSessionRouter(uc usecase.SessionUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(uc, logger.New())
	router := gin.New()
	router.POST("/session/start", handler.StartSession)
	router.POST("/session/:session_id/activate", handler.ActivateSession)
	router.POST("/session/:session_id/end", handler.EndSession)
	router.GET("/session/:session_id", handler.GetSession)
	return router
}

func TestStartSession(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{})

	body := []byte(`{"clientId":"client-1","creatorId":"creator-1","modality":"video","scheduledDurationSeconds":600}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/start", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "session-1")
}

func TestStartSession_MissingFields(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{})

	body := []byte(`{"clientId":"client-1"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/start", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartSession_UnknownCreator(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{createErr: usecase.ErrCreatorNotFound})

	body := []byte(`{"clientId":"client-1","creatorId":"ghost","modality":"video"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/start", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActivateSession(t *testing.T) {
	uc := &stubSessionUseCase{session: &entity.Session{ID: "session-1", Status: entity.SessionStatusPending}}
	router := setupSessionRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/session-1/activate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "active")
}

func TestActivateSession_NotFound(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/missing/activate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActivateSession_InvalidTransition(t *testing.T) {
	uc := &stubSessionUseCase{session: &entity.Session{ID: "session-1", Status: entity.SessionStatusEnded}}
	router := setupSessionRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/session-1/activate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEndSession(t *testing.T) {
	uc := &stubSessionUseCase{endResult: &usecase.SettlementResult{
		SessionID:       "session-1",
		DurationSeconds: 125,
		Gross:           decimal.RequireFromString("20.83"),
		Commission:      decimal.RequireFromString("4.17"),
		CreatorNet:      decimal.RequireFromString("16.66"),
	}}
	router := setupSessionRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/session-1/end", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "20.83")
	assert.Contains(t, w.Body.String(), "16.66")
}

func TestEndSession_SettlementIncomplete(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{endErr: usecase.ErrSettlementIncomplete})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/session-1/end", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "reconciliation")
}

func TestEndSession_NotFound(t *testing.T) {
	router := setupSessionRouter(&stubSessionUseCase{endErr: usecase.ErrSessionNotFound})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/session/missing/end", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSession(t *testing.T) {
	uc := &stubSessionUseCase{session: &entity.Session{ID: "session-1", Status: entity.SessionStatusActive}}
	router := setupSessionRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/session/session-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "realtime")
}
