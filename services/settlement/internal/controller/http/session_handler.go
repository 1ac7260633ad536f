package http

import (
	"errors"
	"net/http"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionUseCase usecase.SessionUseCase
	logger         *logger.Logger
}

func NewSessionHandler(sessionUseCase usecase.SessionUseCase, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

type StartSessionRequest struct {
	ClientID                 string `json:"clientId" binding:"required"`
	CreatorID                string `json:"creatorId" binding:"required"`
	Modality                 string `json:"modality" binding:"required"`
	ScheduledDurationSeconds int    `json:"scheduledDurationSeconds"`
}

// StartSession godoc
// @Summary      Create a session
// @Description  Register a call/chat session between a client and a creator
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body StartSessionRequest true "Session parameters"
// @Success      201  {object}  entity.Session
// @Failure      400  {object}  map[string]string
// @Router       /session/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionUseCase.Create(c.Request.Context(), usecase.CreateSessionInput{
		ClientID:         req.ClientID,
		CreatorID:        req.CreatorID,
		Modality:         entity.Modality(req.Modality),
		ScheduledSeconds: req.ScheduledDurationSeconds,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrCreatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create session: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ActivateSession godoc
// @Summary      Activate a session
// @Description  Mark the session live; billing time starts now. Scheduled sessions also start their countdown.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "Session ID"
// @Success      200  {object}  entity.Session
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /session/{session_id}/activate [post]
func (h *SessionHandler) ActivateSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.sessionUseCase.Activate(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to activate session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// EndSession godoc
// @Summary      End and settle a session
// @Description  End the session and run settlement: charge the client, pay the creator, record the transaction.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "Session ID"
// @Success      200  {object}  usecase.SettlementResult
// @Failure      404  {object}  map[string]string
// @Router       /session/{session_id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	result, err := h.sessionUseCase.End(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrCreatorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrSettlementIncomplete):
			h.logger.Error("Settlement incomplete for session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement incomplete, queued for reconciliation"})
		default:
			h.logger.Error("Failed to end session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession godoc
// @Summary      Get a session
// @Description  Return the persisted session and its realtime document
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "Session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /session/{session_id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, doc, err := h.sessionUseCase.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to get session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "realtime": doc})
}
