package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeROI        = "roi"
	TransactionTypeCommission = "commission"
	TransactionTypeWithdrawal = "withdrawal"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction represents a money movement record
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string          `gorm:"size:50;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Reference   string          `gorm:"uniqueIndex;size:100" json:"reference"`
	Status      string          `gorm:"size:20;default:pending" json:"status"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
