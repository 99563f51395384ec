package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

// AdminService provides the admin panel's aggregate views.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// AdminStats summarizes the platform for the admin dashboard.
type AdminStats struct {
	TotalUsers         int64           `json:"total_users"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
	MonthlyGrowth      float64         `json:"monthly_growth"`
}

// GetAdminStats returns platform-wide totals. MonthlyGrowth compares the
// trailing 30 days of registrations against the 30 days before that.
func (s *AdminService) GetAdminStats() (*AdminStats, error) {
	stats := &AdminStats{TotalInvested: decimal.Zero}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	row := s.db.Model(&models.Investment{}).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.TotalInvested); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	var current, previous int64
	if err := s.db.Model(&models.User{}).
		Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Count(&current).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", now.AddDate(0, 0, -60), now.AddDate(0, 0, -30)).
		Count(&previous).Error; err != nil {
		return nil, err
	}
	if previous > 0 {
		stats.MonthlyGrowth = float64(current-previous) / float64(previous) * 100
	} else if current > 0 {
		stats.MonthlyGrowth = 100
	}

	return stats, nil
}

// GetAllUsers returns every user, newest first. Passwords are excluded by
// the model's JSON tags.
func (s *AdminService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
