package http

import (
	"errors"
	"net/http"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	transactionRepo persistent.TransactionRepository
	logger          *logger.Logger
}

func NewTransactionHandler(transactionRepo persistent.TransactionRepository, logger *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetTransaction godoc
// @Summary      Look up a settlement record
// @Description  Return the transaction record for a session, or null if the session has not been settled
// @Tags         transaction
// @Produce      json
// @Security     BearerAuth
// @Param        sessionId query string true "Session ID"
// @Success      200  {object}  entity.TransactionRecord
// @Failure      400  {object}  map[string]string
// @Router       /transaction/get [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	record, err := h.transactionRepo.GetBySessionID(sessionID)
	if err != nil {
		h.logger.Error("Failed to look up transaction for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// A missing record is not an error: null tells the caller the session
	// has not been settled yet.
	if record == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, record)
}

type CreateTransactionRequest struct {
	SessionID       string          `json:"sessionId" binding:"required"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	IsDone          bool            `json:"isDone"`
	DurationSeconds int             `json:"durationSeconds"`
}

// CreateTransaction godoc
// @Summary      Create a settlement record
// @Description  Insert the one-per-session transaction record; conflicts if the session is already settled
// @Tags         transaction
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTransactionRequest true "Transaction record"
// @Success      201  {object}  entity.TransactionRecord
// @Failure      409  {object}  map[string]string
// @Router       /transaction/create [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AmountPaid.IsNegative() || req.DurationSeconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amountPaid and durationSeconds cannot be negative"})
		return
	}

	record, err := h.transactionRepo.Create(&entity.TransactionRecord{
		SessionID:       req.SessionID,
		AmountPaid:      req.AmountPaid,
		DurationSeconds: req.DurationSeconds,
		IsDone:          req.IsDone,
	})
	if err != nil {
		if errors.Is(err, persistent.ErrDuplicateSession) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create transaction for session %s: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}
