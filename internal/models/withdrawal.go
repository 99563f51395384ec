package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal request statuses
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// WithdrawalRequest represents a user's request to withdraw earnings,
// reviewed by an admin.
type WithdrawalRequest struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BankName      string          `gorm:"size:100;not null" json:"bank_name"`
	AccountNumber string          `gorm:"size:30;not null" json:"account_number"`
	AccountName   string          `gorm:"size:100;not null" json:"account_name"`
	Status        string          `gorm:"size:20;default:pending;index" json:"status"`
	AdminNotes    string          `gorm:"type:text" json:"admin_notes,omitempty"`
	RequestedAt   time.Time       `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
