package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

var ErrInvalidInvestment = errors.New("investment amount and duration must be positive")

// InvestmentService creates investments and their deposit transactions,
// then hands off to the promotion engine.
type InvestmentService struct {
	db              *gorm.DB
	categoryService *CategoryService
}

func NewInvestmentService(db *gorm.DB) *InvestmentService {
	return &InvestmentService{
		db:              db,
		categoryService: NewCategoryService(db),
	}
}

// CreateInvestment records a deposit into an investment package. The
// maturity date is start + duration months and the monthly ROI comes from
// the category rate table. The promotion engine runs synchronously after
// the deposit transaction is recorded.
func (s *InvestmentService) CreateInvestment(userID uint, category models.Category, amount decimal.Decimal, duration int) (*models.Investment, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if amount.LessThanOrEqual(decimal.Zero) || duration <= 0 {
		return nil, ErrInvalidInvestment
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	startDate := time.Now()
	investment := models.Investment{
		UserID:       userID,
		Category:     category,
		Amount:       amount,
		Duration:     duration,
		MonthlyROI:   amount.Mul(models.MonthlyROIRate(category)).Div(decimal.NewFromInt(100)),
		TotalEarned:  decimal.Zero,
		IsActive:     true,
		StartDate:    startDate,
		MaturityDate: startDate.AddDate(0, duration, 0),
	}

	if err := s.db.Create(&investment).Error; err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	transaction := models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Reference:   fmt.Sprintf("INV-%d-%s", investment.ID, uuid.NewString()),
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Investment in %s package", category),
	}
	if err := s.db.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record deposit transaction: %w", err)
	}

	if err := s.categoryService.EvaluateAndPromote(userID); err != nil {
		return nil, fmt.Errorf("failed to evaluate category upgrade: %w", err)
	}

	log.Printf("Investment created: user %d, %s, amount %s, %d months",
		userID, category, amount, duration)
	return &investment, nil
}

// GetUserInvestments returns all of a user's investments, newest first.
func (s *InvestmentService) GetUserInvestments(userID uint) ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

// GetInvestmentByID returns one investment or nil if it does not exist.
func (s *InvestmentService) GetInvestmentByID(id uint) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.First(&investment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &investment, nil
}
