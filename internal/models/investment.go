package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment represents one deposit into an investment package. Category is
// the user's category at the time of the deposit and may lag behind the
// user's current category after a promotion.
type Investment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category     Category        `gorm:"size:20;not null" json:"category"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Duration     int             `gorm:"not null" json:"duration"` // in months
	MonthlyROI   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_roi"`
	TotalEarned  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_earned"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	StartDate    time.Time       `json:"start_date"`
	MaturityDate time.Time       `gorm:"not null" json:"maturity_date"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (Investment) TableName() string {
	return "investments"
}
