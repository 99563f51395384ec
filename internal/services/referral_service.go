package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
	"invest-platform/internal/utils"
)

// MaxTreeDepth bounds the downline tree recursion. Branches deeper than
// this are dropped from the rendered tree; it is a guard against
// pathological depth, not cycle detection.
const MaxTreeDepth = 5

type ReferralService struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{
		db: db,
	}
}

// GenerateUniqueReferralCode generates a referral code from the user's name,
// retrying with a random suffix on collision.
func (s *ReferralService) GenerateUniqueReferralCode(fullName string) (string, error) {
	code := utils.GenerateReferralCode(fullName)

	for attempt := 0; attempt < 5; attempt++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}

		randomized, err := utils.RandomizeReferralCode(utils.GenerateReferralCode(fullName))
		if err != nil {
			return "", err
		}
		code = randomized
	}

	return "", fmt.Errorf("could not generate a unique referral code for %q", fullName)
}

// CreateReferral creates the referral edge for a newly registered user,
// snapshotting the commission rate from the referrer's current category.
// The rate on the edge never changes afterwards.
func (s *ReferralService) CreateReferral(referrer *models.User, referredID uint) (*models.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Each user has at most one referrer
	var existing models.Referral
	if err := s.db.Where("referred_id = ?", referredID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user already has a referrer")
	}

	referral := models.Referral{
		ReferrerID:       referrer.ID,
		ReferredID:       referredID,
		CommissionRate:   models.CommissionRate(referrer.Category),
		CommissionEarned: decimal.Zero,
		IsActive:         true,
	}

	if err := s.db.Create(&referral).Error; err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	log.Printf("Referral created: user %d referred by user %d at %s%%",
		referredID, referrer.ID, referral.CommissionRate)
	return &referral, nil
}

// BuildDownlineTree builds the referral tree rooted at the given user, or
// returns nil if the user does not exist. The tree is rebuilt from scratch
// on every call; nothing is cached.
//
// The downline is loaded level by level into an adjacency index keyed by
// referral code (ReferredBy stores the code, not the ID), then the tree is
// assembled in memory with the depth cap applied.
func (s *ReferralService) BuildDownlineTree(rootUserID uint) (*models.ReferralTreeNode, error) {
	var root models.User
	if err := s.db.First(&root, rootUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	index, err := s.loadDownlineIndex(&root)
	if err != nil {
		return nil, err
	}

	return s.buildNode(&root, index, 0), nil
}

// loadDownlineIndex walks the full downline breadth-first and returns a map
// from referral code to the users referred with that code. The whole
// downline is loaded, not just the displayed depth, so TotalDownline can
// count past the tree cap.
func (s *ReferralService) loadDownlineIndex(root *models.User) (map[string][]models.User, error) {
	index := make(map[string][]models.User)
	visited := map[uint]bool{root.ID: true}

	frontier := []string{}
	if root.ReferralCode != "" {
		frontier = append(frontier, root.ReferralCode)
	}

	for len(frontier) > 0 {
		var level []models.User
		if err := s.db.Where("referred_by IN ?", frontier).Order("created_at ASC").Find(&level).Error; err != nil {
			return nil, err
		}

		next := []string{}
		for _, u := range level {
			if visited[u.ID] {
				// Corrupted data cycle; skip rather than loop forever
				continue
			}
			visited[u.ID] = true

			if u.ReferredBy != nil {
				index[*u.ReferredBy] = append(index[*u.ReferredBy], u)
			}
			if u.ReferralCode != "" {
				next = append(next, u.ReferralCode)
			}
		}

		frontier = next
	}

	return index, nil
}

// buildNode assembles the tree node for one user. Nodes past MaxTreeDepth
// are dropped from Children; DirectReferrals still counts every immediate
// child and TotalDownline counts the full downline regardless of the cap.
func (s *ReferralService) buildNode(user *models.User, index map[string][]models.User, depth int) *models.ReferralTreeNode {
	if depth > MaxTreeDepth {
		return nil
	}

	direct := index[user.ReferralCode]

	children := make([]*models.ReferralTreeNode, 0, len(direct))
	for i := range direct {
		if child := s.buildNode(&direct[i], index, depth+1); child != nil {
			children = append(children, child)
		}
	}

	return &models.ReferralTreeNode{
		ID:           user.ID,
		Name:         user.FullName,
		Category:     user.Category,
		ReferralCode: user.ReferralCode,
		JoinDate:     user.CreatedAt,
		Children:     children,
		Stats: models.ReferralTreeStats{
			DirectReferrals: len(direct),
			TotalDownline:   countDownline(user.ReferralCode, index),
		},
	}
}

// countDownline counts every user transitively referred via the given code.
// Unlike the rendered tree this is not depth-capped; the index is cycle-free
// by construction, so plain recursion terminates.
func countDownline(code string, index map[string][]models.User) int {
	total := 0
	for _, u := range index[code] {
		total++
		total += countDownline(u.ReferralCode, index)
	}
	return total
}

// ReferralStats holds aggregate referral numbers for one user.
type ReferralStats struct {
	TotalReferrals   int64           `json:"total_referrals"`
	ActiveReferrals  int64           `json:"active_referrals"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
}

// GetReferralStats returns referral statistics for a user.
func (s *ReferralService) GetReferralStats(userID uint) (*ReferralStats, error) {
	stats := &ReferralStats{TotalCommissions: decimal.Zero}

	if err := s.db.Model(&models.Referral{}).Where("referrer_id = ?", userID).
		Count(&stats.TotalReferrals).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Referral{}).Where("referrer_id = ? AND is_active = ?", userID, true).
		Count(&stats.ActiveReferrals).Error; err != nil {
		return nil, err
	}

	var total decimal.Decimal
	row := s.db.Model(&models.Referral{}).Where("referrer_id = ?", userID).
		Select("COALESCE(SUM(commission_earned), 0)").Row()
	if err := row.Scan(&total); err == nil {
		stats.TotalCommissions = total
	}

	return stats, nil
}

// GetUserReferrals returns all referral edges where the user is the referrer.
func (s *ReferralService) GetUserReferrals(userID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", userID).Preload("Referred").
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
