package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

var (
	ErrInvalidWithdrawalAmount = errors.New("withdrawal amount must be positive")
	ErrWithdrawalProcessed     = errors.New("withdrawal request already processed")
	ErrInvalidWithdrawalStatus = errors.New("status must be approved or rejected")
)

// WithdrawalService handles user withdrawal requests and admin review.
type WithdrawalService struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewWithdrawalService(db *gorm.DB) *WithdrawalService {
	return &WithdrawalService{db: db}
}

// RequestWithdrawal files a pending withdrawal request for admin review.
func (s *WithdrawalService) RequestWithdrawal(userID uint, amount decimal.Decimal, bankName, accountNumber, accountName string) (*models.WithdrawalRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidWithdrawalAmount
	}

	withdrawal := models.WithdrawalRequest{
		UserID:        userID,
		Amount:        amount,
		BankName:      bankName,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Status:        models.WithdrawalStatusPending,
	}

	if err := s.db.Create(&withdrawal).Error; err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	log.Printf("Withdrawal requested: user %d, amount %s", userID, amount)
	return &withdrawal, nil
}

// GetUserWithdrawals returns a user's withdrawal requests, newest first.
func (s *WithdrawalService) GetUserWithdrawals(userID uint) ([]models.WithdrawalRequest, error) {
	var withdrawals []models.WithdrawalRequest
	if err := s.db.Where("user_id = ?", userID).Order("requested_at DESC").
		Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// GetAllWithdrawals returns every withdrawal request, newest first.
func (s *WithdrawalService) GetAllWithdrawals() ([]models.WithdrawalRequest, error) {
	var withdrawals []models.WithdrawalRequest
	if err := s.db.Preload("User").Order("requested_at DESC").
		Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// ProcessWithdrawal resolves a pending request. Approval also records a
// completed withdrawal transaction for the user.
func (s *WithdrawalService) ProcessWithdrawal(id uint, status, adminNotes string) (*models.WithdrawalRequest, error) {
	if status != models.WithdrawalStatusApproved && status != models.WithdrawalStatusRejected {
		return nil, ErrInvalidWithdrawalStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var withdrawal models.WithdrawalRequest
	if err := s.db.First(&withdrawal, id).Error; err != nil {
		return nil, fmt.Errorf("withdrawal request not found: %w", err)
	}

	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, ErrWithdrawalProcessed
	}

	now := time.Now()
	if err := s.db.Model(&withdrawal).Updates(map[string]interface{}{
		"status":       status,
		"admin_notes":  adminNotes,
		"processed_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update withdrawal: %w", err)
	}

	if status == models.WithdrawalStatusApproved {
		transaction := models.Transaction{
			UserID:      withdrawal.UserID,
			Type:        models.TransactionTypeWithdrawal,
			Amount:      withdrawal.Amount,
			Reference:   fmt.Sprintf("WD-%d-%s", withdrawal.ID, uuid.NewString()),
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Withdrawal to %s %s", withdrawal.BankName, withdrawal.AccountNumber),
		}
		if err := s.db.Create(&transaction).Error; err != nil {
			return nil, fmt.Errorf("failed to record withdrawal transaction: %w", err)
		}
	}

	log.Printf("Withdrawal %d %s", withdrawal.ID, status)
	return &withdrawal, nil
}
