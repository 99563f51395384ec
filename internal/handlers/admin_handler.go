package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invest-platform/internal/services"
)

type AdminHandler struct {
	db                *gorm.DB
	adminService      *services.AdminService
	withdrawalService *services.WithdrawalService
	analyticsService  *services.AnalyticsService
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:                db,
		adminService:      services.NewAdminService(db),
		withdrawalService: services.NewWithdrawalService(db),
		analyticsService:  services.NewAnalyticsService(db),
	}
}

// GetStats returns platform-wide totals for the admin dashboard
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetAdminStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get admin stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetUsers lists every registered user
// GET /api/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.adminService.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}

// GetWithdrawals lists every withdrawal request
// GET /api/admin/withdrawals
func (h *AdminHandler) GetWithdrawals(c *gin.Context) {
	withdrawals, err := h.withdrawalService.GetAllWithdrawals()
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

// ProcessWithdrawal approves or rejects a pending request
// PATCH /api/admin/withdrawals/:id
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid withdrawal id"})
		return
	}

	var req struct {
		Status     string `json:"status" binding:"required"`
		AdminNotes string `json:"admin_notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.withdrawalService.ProcessWithdrawal(uint(id), req.Status, req.AdminNotes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    withdrawal,
	})
}

// GetAdvancedAnalytics returns the five-way analytics snapshot. Optional
// start_date/end_date query params accept RFC3339 or YYYY-MM-DD.
// GET /api/admin/analytics
func (h *AdminHandler) GetAdvancedAnalytics(c *gin.Context) {
	var start, end *time.Time

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return
		}
		start = &parsed
	}

	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return
		}
		end = &parsed
	}

	snapshot, err := h.analyticsService.ComputeAnalytics(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
