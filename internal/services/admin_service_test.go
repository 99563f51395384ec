package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"invest-platform/internal/models"
)

func TestGetAdminStatsEmpty(t *testing.T) {
	db := setupPureTestDB(t)
	service := NewAdminService(db)

	stats, err := service.GetAdminStats()
	if err != nil {
		t.Fatalf("GetAdminStats failed: %v", err)
	}

	if stats.TotalUsers != 0 || stats.PendingWithdrawals != 0 {
		t.Errorf("expected zero counts, got %+v", stats)
	}
	if !stats.TotalInvested.IsZero() {
		t.Errorf("expected zero invested, got %s", stats.TotalInvested)
	}
	if stats.MonthlyGrowth != 0 {
		t.Errorf("expected zero growth with no users, got %f", stats.MonthlyGrowth)
	}
}

func TestGetAdminStats(t *testing.T) {
	db := setupPureTestDB(t)
	service := NewAdminService(db)
	withdrawalService := NewWithdrawalService(db)

	now := time.Now()

	// Three recent users, one from the previous 30-day window
	u1 := createTestUser(t, db, "Recent One", "PSS-AD0001", models.CategoryBronze, nil)
	createTestUser(t, db, "Recent Two", "PSS-AD0002", models.CategoryBronze, nil)
	createTestUser(t, db, "Recent Three", "PSS-AD0003", models.CategorySilver, nil)
	previous := createTestUser(t, db, "Previous", "PSS-AD0004", models.CategoryBronze, nil)
	db.Model(&models.User{}).Where("id = ?", previous.ID).
		Update("created_at", now.AddDate(0, 0, -45))

	investment := models.Investment{
		UserID:       u1.ID,
		Category:     models.CategoryBronze,
		Amount:       decimal.NewFromInt(25000),
		Duration:     6,
		MonthlyROI:   decimal.Zero,
		TotalEarned:  decimal.Zero,
		MaturityDate: now.AddDate(0, 6, 0),
	}
	if err := db.Create(&investment).Error; err != nil {
		t.Fatalf("failed to seed investment: %v", err)
	}

	// One pending and one approved withdrawal
	if _, err := withdrawalService.RequestWithdrawal(u1.ID, decimal.NewFromInt(500), "GTBank", "0123456789", "Recent One"); err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}
	approved, err := withdrawalService.RequestWithdrawal(u1.ID, decimal.NewFromInt(700), "GTBank", "0123456789", "Recent One")
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}
	if _, err := withdrawalService.ProcessWithdrawal(approved.ID, models.WithdrawalStatusApproved, ""); err != nil {
		t.Fatalf("ProcessWithdrawal failed: %v", err)
	}

	stats, err := service.GetAdminStats()
	if err != nil {
		t.Fatalf("GetAdminStats failed: %v", err)
	}

	if stats.TotalUsers != 4 {
		t.Errorf("expected 4 users, got %d", stats.TotalUsers)
	}
	if !stats.TotalInvested.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("expected invested 25000, got %s", stats.TotalInvested)
	}
	if stats.PendingWithdrawals != 1 {
		t.Errorf("expected 1 pending withdrawal, got %d", stats.PendingWithdrawals)
	}

	// 3 registrations this window vs 1 the window before
	if stats.MonthlyGrowth != 200 {
		t.Errorf("expected 200%% growth, got %f", stats.MonthlyGrowth)
	}
}

func TestGetAllUsersNewestFirst(t *testing.T) {
	db := setupPureTestDB(t)
	service := NewAdminService(db)

	old := createTestUser(t, db, "Older", "PSS-AU0001", models.CategoryBronze, nil)
	db.Model(&models.User{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-time.Hour))
	createTestUser(t, db, "Newer", "PSS-AU0002", models.CategoryBronze, nil)

	users, err := service.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].FullName != "Newer" {
		t.Errorf("expected newest user first, got %s", users[0].FullName)
	}
}
