package http

import (
	"errors"
	"net/http"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/repo/persistent"

	"github.com/gin-gonic/gin"
)

type CreatorHandler struct {
	creatorRepo persistent.CreatorRepository
	logger      *logger.Logger
}

func NewCreatorHandler(creatorRepo persistent.CreatorRepository, logger *logger.Logger) *CreatorHandler {
	return &CreatorHandler{
		creatorRepo: creatorRepo,
		logger:      logger,
	}
}

type GetUserByIDRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// GetUserByID godoc
// @Summary      Look up a creator
// @Description  Return the creator profile including per-minute rates for every modality
// @Tags         creator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body GetUserByIDRequest true "Creator ID"
// @Success      200  {object}  entity.Creator
// @Failure      404  {object}  map[string]string
// @Router       /creator/getUserById [post]
func (h *CreatorHandler) GetUserByID(c *gin.Context) {
	var req GetUserByIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.creatorRepo.GetByID(req.UserID)
	if err != nil {
		if errors.Is(err, persistent.ErrCreatorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to look up creator %s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, creator)
}
