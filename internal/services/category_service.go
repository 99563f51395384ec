package services

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

// CategoryService promotes users to higher tiers as their cumulative
// investment crosses the upgrade thresholds. Users are never demoted.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// EvaluateAndPromote re-checks a user's tier against their lifetime
// investment total and promotes them if a higher threshold has been
// crossed. Called after every investment creation.
//
// When one deposit crosses several thresholds at once the user lands
// directly on the highest qualifying tier. The category update is a
// compare-and-swap on the current category, so two concurrent evaluations
// cannot both record an upgrade event.
func (s *CategoryService) EvaluateAndPromote(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	total, err := s.totalInvestment(userID)
	if err != nil {
		return err
	}

	target := highestQualifyingCategory(user.Category, total)
	if target.Level() <= user.Category.Level() {
		return nil
	}

	// Compare-and-swap: only promote if the category is still what we read
	result := s.db.Model(&models.User{}).
		Where("id = ? AND category = ?", userID, user.Category).
		Updates(map[string]interface{}{
			"category":   target,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race to a concurrent evaluation; that one wrote the event
		return nil
	}

	upgrade := models.CategoryUpgrade{
		UserID:                   userID,
		FromCategory:             user.Category,
		ToCategory:               target,
		UpgradeReason:            fmt.Sprintf("Automatic upgrade based on total investment of %s", total.StringFixed(2)),
		TotalInvestmentThreshold: total,
	}

	if err := s.db.Create(&upgrade).Error; err != nil {
		return fmt.Errorf("failed to record category upgrade: %w", err)
	}

	log.Printf("User %d promoted from %s to %s (total investment %s)",
		userID, user.Category, target, total)
	return nil
}

// GetUpgradeHistory returns all upgrade events for a user, newest first.
func (s *CategoryService) GetUpgradeHistory(userID uint) ([]models.CategoryUpgrade, error) {
	var upgrades []models.CategoryUpgrade
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Find(&upgrades).Error; err != nil {
		return nil, err
	}
	return upgrades, nil
}

// totalInvestment sums every investment the user has ever made, active
// or not.
func (s *CategoryService) totalInvestment(userID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.Model(&models.Investment{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum investments: %w", err)
	}
	return total, nil
}

// highestQualifyingCategory scans the ordered threshold table and returns
// the highest tier whose threshold the total meets, above the current tier.
// Returns the current category when nothing qualifies.
func highestQualifyingCategory(current models.Category, total decimal.Decimal) models.Category {
	target := current
	for _, entry := range models.UpgradeThresholds {
		if total.GreaterThanOrEqual(entry.Threshold) && entry.Category.Level() > current.Level() {
			target = entry.Category
		}
	}
	return target
}
