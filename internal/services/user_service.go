package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

// UserService handles user-related business logic
type UserService struct {
	db              *gorm.DB
	referralService *ReferralService
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:              db,
		referralService: NewReferralService(db),
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// UserStats aggregates a user's dashboard numbers.
type UserStats struct {
	TotalInvestment  decimal.Decimal `json:"total_investment"`
	TotalReturns     decimal.Decimal `json:"total_returns"`
	TotalReferrals   int64           `json:"total_referrals"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
}

// GetUserStats returns the dashboard aggregates for a user.
func (s *UserService) GetUserStats(userID uint) (*UserStats, error) {
	stats := &UserStats{
		TotalInvestment:  decimal.Zero,
		TotalReturns:     decimal.Zero,
		TotalCommissions: decimal.Zero,
	}

	row := s.db.Model(&models.Investment{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.TotalInvestment); err != nil {
		return nil, err
	}

	row = s.db.Model(&models.Investment{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_earned), 0)").Row()
	if err := row.Scan(&stats.TotalReturns); err != nil {
		return nil, err
	}

	referralStats, err := s.referralService.GetReferralStats(userID)
	if err != nil {
		return nil, err
	}
	stats.TotalReferrals = referralStats.TotalReferrals
	stats.TotalCommissions = referralStats.TotalCommissions

	return stats, nil
}

// GetUserTransactions returns a user's transaction history, newest first.
func (s *UserService) GetUserTransactions(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
