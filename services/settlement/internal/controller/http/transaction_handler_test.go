package http

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubTransactionRepo struct {
	records map[string]*entity.TransactionRecord
	failing bool
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{records: make(map[string]*entity.TransactionRecord)}
}

func (r *stubTransactionRepo) GetBySessionID(sessionID string) (*entity.TransactionRecord, error) {
	if r.failing {
		return nil, fmt.Errorf("database unavailable")
	}
	return r.records[sessionID], nil
}

func (r *stubTransactionRepo) Create(record *entity.TransactionRecord) (*entity.TransactionRecord, error) {
	if r.failing {
		return nil, fmt.Errorf("database unavailable")
	}
	if _, exists := r.records[record.SessionID]; exists {
		return nil, persistent.ErrDuplicateSession
	}
	r.records[record.SessionID] = record
	return record, nil
}

func (r *stubTransactionRepo) MarkDone(sessionID string) error { return nil }

func (r *stubTransactionRepo) ListPending(limit int) ([]*entity.TransactionRecord, error) {
	return nil, nil
}

func setupTransactionRouter(repo persistent.TransactionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTransactionHandler(repo, logger.New())
	router := gin.New()
	router.GET("/transaction/get", handler.GetTransaction)
	router.POST("/transaction/create", handler.CreateTransaction)
	return router
}

func TestGetTransaction_ReturnsNullWhenUnsettled(t *testing.T) {
	router := setupTransactionRouter(newStubTransactionRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transaction/get?sessionId=unknown", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestGetTransaction_ReturnsRecord(t *testing.T) {
	repo := newStubTransactionRepo()
	repo.records["session-1"] = &entity.TransactionRecord{
		SessionID:       "session-1",
		AmountPaid:      decimal.RequireFromString("20.83"),
		DurationSeconds: 125,
		IsDone:          true,
	}
	router := setupTransactionRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transaction/get?sessionId=session-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "session-1")
	assert.Contains(t, w.Body.String(), "20.83")
}

func TestGetTransaction_RequiresSessionID(t *testing.T) {
	router := setupTransactionRouter(newStubTransactionRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transaction/get", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTransaction(t *testing.T) {
	router := setupTransactionRouter(newStubTransactionRepo())

	body := []byte(`{"sessionId":"session-1","amountPaid":"20.83","isDone":true,"durationSeconds":125}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/transaction/create", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateTransaction_ConflictOnDuplicate(t *testing.T) {
	repo := newStubTransactionRepo()
	repo.records["session-1"] = &entity.TransactionRecord{SessionID: "session-1"}
	router := setupTransactionRouter(repo)

	body := []byte(`{"sessionId":"session-1","amountPaid":"20.83","durationSeconds":125}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/transaction/create", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTransaction_RejectsNegativeAmount(t *testing.T) {
	router := setupTransactionRouter(newStubTransactionRepo())

	body := []byte(`{"sessionId":"session-1","amountPaid":"-5.00","durationSeconds":125}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/transaction/create", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
