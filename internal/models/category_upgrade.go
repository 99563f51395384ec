package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryUpgrade is an append-only audit record written whenever the
// promotion engine moves a user to a higher tier.
type CategoryUpgrade struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	UserID                   uint            `gorm:"not null;index" json:"user_id"`
	User                     *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FromCategory             Category        `gorm:"size:20;not null" json:"from_category"`
	ToCategory               Category        `gorm:"size:20;not null" json:"to_category"`
	UpgradeReason            string          `gorm:"type:text" json:"upgrade_reason"`
	TotalInvestmentThreshold decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_investment_threshold"`
	CreatedAt                time.Time       `json:"created_at"`
}

func (CategoryUpgrade) TableName() string {
	return "category_upgrades"
}
