package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral represents one referrer -> referred relationship. CommissionRate
// is snapshotted from the referrer's category when the referred user
// registers and never changes afterwards, even if the referrer is promoted.
type Referral struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ReferrerID       uint            `gorm:"not null;index" json:"referrer_id"`
	Referrer         *User           `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredID       uint            `gorm:"not null;uniqueIndex" json:"referred_id"`
	Referred         *User           `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	CommissionEarned decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"commission_earned"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// ReferralTreeNode is a derived view of a user's downline, rebuilt on every
// read. It is never persisted.
type ReferralTreeNode struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Category     Category            `json:"category"`
	ReferralCode string              `json:"referral_code"`
	JoinDate     time.Time           `json:"join_date"`
	Children     []*ReferralTreeNode `json:"children"`
	Stats        ReferralTreeStats   `json:"stats"`
}

// ReferralTreeStats aggregates counts for one tree node. DirectReferrals is
// the number of immediate children; TotalDownline counts every descendant
// regardless of the tree's display depth cap.
type ReferralTreeStats struct {
	DirectReferrals int `json:"direct_referrals"`
	TotalDownline   int `json:"total_downline"`
}
