package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/auth"
	"invest-platform/internal/models"
	"invest-platform/internal/services"
)

type InvestmentHandler struct {
	db                *gorm.DB
	investmentService *services.InvestmentService
	categoryService   *services.CategoryService
}

func NewInvestmentHandler(db *gorm.DB) *InvestmentHandler {
	return &InvestmentHandler{
		db:                db,
		investmentService: services.NewInvestmentService(db),
		categoryService:   services.NewCategoryService(db),
	}
}

// CreateInvestment records a deposit and runs the category promotion check
// POST /api/investments
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
		Amount   string `json:"amount" binding:"required"`
		Duration int    `json:"duration" binding:"required"`
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

	investment, err := h.investmentService.CreateInvestment(userID, models.Category(req.Category), amount, req.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    investment,
	})
}

// GetInvestments returns the current user's investments
// GET /api/investments
func (h *InvestmentHandler) GetInvestments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	investments, err := h.investmentService.GetUserInvestments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get investments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    investments,
		"count":   len(investments),
	})
}

// GetUpgradeHistory returns the user's category upgrade events
// GET /api/investments/upgrades
func (h *InvestmentHandler) GetUpgradeHistory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	upgrades, err := h.categoryService.GetUpgradeHistory(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get upgrade history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    upgrades,
		"count":   len(upgrades),
	})
}
