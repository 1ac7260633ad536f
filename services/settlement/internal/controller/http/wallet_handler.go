package http

import (
	"errors"
	"net/http"
	"strconv"

	"consultly/pkg/logger"
	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

type WalletMutationRequest struct {
	UserID   string          `json:"userId" binding:"required"`
	UserType string          `json:"userType" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Category string          `json:"category"`
}

func (r *WalletMutationRequest) userType() (entity.UserType, bool) {
	userType := entity.UserType(r.UserType)
	return userType, userType.Valid()
}

// Payout godoc
// @Summary      Debit a wallet
// @Description  Withdraw from a wallet; rejected when the balance is insufficient
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WalletMutationRequest true "Debit parameters"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  map[string]string
// @Router       /wallet/payout [post]
func (h *WalletHandler) Payout(c *gin.Context) {
	var req WalletMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userType, ok := req.userType()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userType must be Client or Creator"})
		return
	}

	wallet, err := h.walletUseCase.Payout(req.UserID, userType, req.Amount, entity.EntryCategory(req.Category))
	if err != nil {
		if errors.Is(err, usecase.ErrInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to process payout for %s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// AddMoney godoc
// @Summary      Credit a wallet
// @Description  Add funds to a wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WalletMutationRequest true "Credit parameters"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  map[string]string
// @Router       /wallet/addMoney [post]
func (h *WalletHandler) AddMoney(c *gin.Context) {
	var req WalletMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userType, ok := req.userType()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userType must be Client or Creator"})
		return
	}

	wallet, err := h.walletUseCase.AddMoney(req.UserID, userType, req.Amount, entity.EntryCategory(req.Category))
	if err != nil {
		h.logger.Error("Failed to add money for %s: %v", req.UserID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetWallet godoc
// @Summary      Get wallet
// @Description  Get wallet balance for the authenticated user in the given role
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        userType query string false "Client or Creator (default Client)"
// @Success      200  {object}  entity.Wallet
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := c.GetString("user_id")
	userType := entity.UserType(c.DefaultQuery("userType", string(entity.UserTypeClient)))
	if !userType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userType must be Client or Creator"})
		return
	}

	wallet, err := h.walletUseCase.GetWallet(userID, userType)
	if err != nil {
		h.logger.Error("Failed to get wallet: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetEntries godoc
// @Summary      Get wallet history
// @Description  Get ledger entries for the authenticated user in the given role
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        userType query string false "Client or Creator (default Client)"
// @Param        limit query int false "Number of entries"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/entries [get]
func (h *WalletHandler) GetEntries(c *gin.Context) {
	userID := c.GetString("user_id")
	userType := entity.UserType(c.DefaultQuery("userType", string(entity.UserTypeClient)))
	if !userType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userType must be Client or Creator"})
		return
	}

	limit := 50
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.walletUseCase.GetEntries(userID, userType, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get wallet entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
