package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/auth"
	"invest-platform/internal/services"
)

type WithdrawalHandler struct {
	db                *gorm.DB
	withdrawalService *services.WithdrawalService
}

func NewWithdrawalHandler(db *gorm.DB) *WithdrawalHandler {
	return &WithdrawalHandler{
		db:                db,
		withdrawalService: services.NewWithdrawalService(db),
	}
}

// RequestWithdrawal files a withdrawal request for admin review
// POST /api/withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Amount        string `json:"amount" binding:"required"`
		BankName      string `json:"bank_name" binding:"required"`
		AccountNumber string `json:"account_number" binding:"required"`
		AccountName   string `json:"account_name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(userID, amount, req.BankName, req.AccountNumber, req.AccountName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    withdrawal,
	})
}

// GetWithdrawals returns the current user's withdrawal requests
// GET /api/withdrawals
func (h *WithdrawalHandler) GetWithdrawals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	withdrawals, err := h.withdrawalService.GetUserWithdrawals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withdrawals,
		"count":   len(withdrawals),
	})
}
