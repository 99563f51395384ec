package models

import (
	"time"
)

// User represents a registered investor. ReferredBy stores the referrer's
// public referral code rather than their numeric ID; downline traversal is
// keyed on the code.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FullName      string    `gorm:"not null" json:"full_name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"size:30;not null" json:"phone"`
	Password      string    `gorm:"not null" json:"-"`
	BankName      string    `gorm:"size:100" json:"bank_name"`
	AccountNumber string    `gorm:"size:30" json:"account_number"`
	AccountName   string    `gorm:"size:100" json:"account_name"`
	Category      Category  `gorm:"size:20;not null;index" json:"category"`
	ReferralCode  string    `gorm:"uniqueIndex;size:30" json:"referral_code"`
	ReferredBy    *string   `gorm:"size:30;index" json:"referred_by,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	IsAdmin       bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
