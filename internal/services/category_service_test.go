package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"invest-platform/internal/models"
)

func seedInvestment(t *testing.T, service *CategoryService, userID uint, category models.Category, amount int64) {
	t.Helper()
	investment := models.Investment{
		UserID:      userID,
		Category:    category,
		Amount:      decimal.NewFromInt(amount),
		Duration:    6,
		MonthlyROI:  decimal.Zero,
		TotalEarned: decimal.Zero,
		IsActive:    true,
	}
	if err := service.db.Create(&investment).Error; err != nil {
		t.Fatalf("failed to seed investment: %v", err)
	}
}

func TestEvaluateAndPromoteMultiTierJump(t *testing.T) {
	db := setupTestDB(t)
	service := NewCategoryService(db)

	user := createTestUser(t, db, "Jump User", "PSS-JU0001", models.CategoryBronze, nil)

	// A single 250k deposit crosses silver, gold and platinum at once
	seedInvestment(t, service, user.ID, models.CategoryBronze, 250000)

	if err := service.EvaluateAndPromote(user.ID); err != nil {
		t.Fatalf("EvaluateAndPromote failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Category != models.CategoryPlatinum {
		t.Errorf("expected platinum, got %s", reloaded.Category)
	}

	var upgrades []models.CategoryUpgrade
	if err := db.Where("user_id = ?", user.ID).Find(&upgrades).Error; err != nil {
		t.Fatalf("failed to load upgrades: %v", err)
	}
	if len(upgrades) != 1 {
		t.Fatalf("expected exactly 1 upgrade event, got %d", len(upgrades))
	}
	if upgrades[0].FromCategory != models.CategoryBronze || upgrades[0].ToCategory != models.CategoryPlatinum {
		t.Errorf("upgrade event wrong: %s -> %s", upgrades[0].FromCategory, upgrades[0].ToCategory)
	}
	if !upgrades[0].TotalInvestmentThreshold.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("expected threshold snapshot 250000, got %s", upgrades[0].TotalInvestmentThreshold)
	}
}

func TestEvaluateAndPromoteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	service := NewCategoryService(db)

	user := createTestUser(t, db, "Idem User", "PSS-IU0001", models.CategoryBronze, nil)
	seedInvestment(t, service, user.ID, models.CategoryBronze, 15000)

	if err := service.EvaluateAndPromote(user.ID); err != nil {
		t.Fatalf("first EvaluateAndPromote failed: %v", err)
	}
	if err := service.EvaluateAndPromote(user.ID); err != nil {
		t.Fatalf("second EvaluateAndPromote failed: %v", err)
	}

	var count int64
	db.Model(&models.CategoryUpgrade{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 upgrade event after repeated evaluation, got %d", count)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.Category != models.CategorySilver {
		t.Errorf("expected silver, got %s", reloaded.Category)
	}
}

func TestEvaluateAndPromoteNoOp(t *testing.T) {
	db := setupTestDB(t)
	service := NewCategoryService(db)

	user := createTestUser(t, db, "Small User", "PSS-SU0001", models.CategoryBronze, nil)
	seedInvestment(t, service, user.ID, models.CategoryBronze, 9999)

	if err := service.EvaluateAndPromote(user.ID); err != nil {
		t.Fatalf("EvaluateAndPromote failed: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.Category != models.CategoryBronze {
		t.Errorf("expected bronze, got %s", reloaded.Category)
	}

	var count int64
	db.Model(&models.CategoryUpgrade{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no upgrade events, got %d", count)
	}
}

func TestEvaluateAndPromoteNeverDemotes(t *testing.T) {
	db := setupTestDB(t)
	service := NewCategoryService(db)

	// Diamond user with a total far below the diamond threshold
	user := createTestUser(t, db, "Diamond User", "PSS-DU0001", models.CategoryDiamond, nil)
	seedInvestment(t, service, user.ID, models.CategoryDiamond, 20000)

	if err := service.EvaluateAndPromote(user.ID); err != nil {
		t.Fatalf("EvaluateAndPromote failed: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.Category != models.CategoryDiamond {
		t.Errorf("user was demoted to %s", reloaded.Category)
	}
}

func TestHighestQualifyingCategory(t *testing.T) {
	tests := []struct {
		name    string
		current models.Category
		total   int64
		want    models.Category
	}{
		{"below first threshold", models.CategoryBronze, 9999, models.CategoryBronze},
		{"exactly silver", models.CategoryBronze, 10000, models.CategorySilver},
		{"jump to platinum", models.CategoryBronze, 250000, models.CategoryPlatinum},
		{"elite", models.CategoryBronze, 10000000, models.CategoryElite},
		{"already above qualifying tier", models.CategoryGold, 15000, models.CategoryGold},
		{"gold to diamond", models.CategoryGold, 1500000, models.CategoryDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := highestQualifyingCategory(tt.current, decimal.NewFromInt(tt.total))
			if got != tt.want {
				t.Errorf("highestQualifyingCategory(%s, %d) = %s, want %s",
					tt.current, tt.total, got, tt.want)
			}
		})
	}
}
