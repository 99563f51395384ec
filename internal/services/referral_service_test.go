package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invest-platform/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Investment{},
		&models.Referral{},
		&models.WithdrawalRequest{},
		&models.Transaction{},
		&models.CategoryUpgrade{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, code string, category models.Category, referredBy *string) *models.User {
	user := models.User{
		FullName:     name,
		Email:        fmt.Sprintf("%s@example.com", code),
		Phone:        "0800000000",
		Password:     "not-a-real-hash",
		Category:     category,
		ReferralCode: code,
		ReferredBy:   referredBy,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return &user
}

func TestBuildDownlineTreeNoReferrals(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	user := createTestUser(t, db, "Ada Lovelace", "PSS-AL0001", models.CategoryBronze, nil)

	tree, err := service.BuildDownlineTree(user.ID)
	if err != nil {
		t.Fatalf("BuildDownlineTree failed: %v", err)
	}
	if tree == nil {
		t.Fatal("expected a tree, got nil")
	}

	if len(tree.Children) != 0 {
		t.Errorf("expected no children, got %d", len(tree.Children))
	}
	if tree.Stats.DirectReferrals != 0 {
		t.Errorf("expected 0 direct referrals, got %d", tree.Stats.DirectReferrals)
	}
	if tree.Stats.TotalDownline != 0 {
		t.Errorf("expected 0 total downline, got %d", tree.Stats.TotalDownline)
	}
}

func TestBuildDownlineTreeMissingUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	tree, err := service.BuildDownlineTree(9999)
	if err != nil {
		t.Fatalf("BuildDownlineTree failed: %v", err)
	}
	if tree != nil {
		t.Errorf("expected nil tree for missing user, got %+v", tree)
	}
}

func TestBuildDownlineTreeStructure(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	root := createTestUser(t, db, "Root User", "PSS-RU0001", models.CategoryGold, nil)
	childA := createTestUser(t, db, "Child A", "PSS-CA0001", models.CategoryGold, &root.ReferralCode)
	createTestUser(t, db, "Child B", "PSS-CB0001", models.CategorySilver, &root.ReferralCode)
	createTestUser(t, db, "Grandchild", "PSS-GC0001", models.CategorySilver, &childA.ReferralCode)

	tree, err := service.BuildDownlineTree(root.ID)
	if err != nil {
		t.Fatalf("BuildDownlineTree failed: %v", err)
	}

	if tree.Stats.DirectReferrals != 2 {
		t.Errorf("expected 2 direct referrals, got %d", tree.Stats.DirectReferrals)
	}
	if tree.Stats.TotalDownline != 3 {
		t.Errorf("expected 3 total downline, got %d", tree.Stats.TotalDownline)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}

	var childANode *models.ReferralTreeNode
	for _, child := range tree.Children {
		if child.ReferralCode == childA.ReferralCode {
			childANode = child
		}
	}
	if childANode == nil {
		t.Fatal("child A missing from tree")
	}
	if childANode.Stats.DirectReferrals != 1 || childANode.Stats.TotalDownline != 1 {
		t.Errorf("child A stats wrong: %+v", childANode.Stats)
	}
}

func TestBuildDownlineTreeDepthCap(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	// Chain two levels deeper than the cap
	chainLen := MaxTreeDepth + 3
	prev := createTestUser(t, db, "Level 0", "PSS-L00000", models.CategoryBronze, nil)
	rootID := prev.ID
	for i := 1; i <= chainLen; i++ {
		code := fmt.Sprintf("PSS-L%05d", i)
		prev = createTestUser(t, db, fmt.Sprintf("Level %d", i), code, models.CategoryBronze, &prev.ReferralCode)
	}

	tree, err := service.BuildDownlineTree(rootID)
	if err != nil {
		t.Fatalf("BuildDownlineTree failed: %v", err)
	}

	// The rendered tree stops at the cap
	depth := 0
	node := tree
	for len(node.Children) > 0 {
		node = node.Children[0]
		depth++
	}
	if depth != MaxTreeDepth {
		t.Errorf("expected rendered depth %d, got %d", MaxTreeDepth, depth)
	}

	// The downline count ignores the cap
	if tree.Stats.TotalDownline != chainLen {
		t.Errorf("expected total downline %d, got %d", chainLen, tree.Stats.TotalDownline)
	}
}

func TestCommissionRateSnapshot(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	referrer := createTestUser(t, db, "Referrer", "PSS-RF0001", models.CategoryBronze, nil)
	referredA := createTestUser(t, db, "Referred A", "PSS-RA0001", models.CategoryBronze, &referrer.ReferralCode)

	edgeA, err := service.CreateReferral(referrer, referredA.ID)
	if err != nil {
		t.Fatalf("CreateReferral failed: %v", err)
	}
	if !edgeA.CommissionRate.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected bronze rate 5, got %s", edgeA.CommissionRate)
	}

	// Promote the referrer; the existing edge must keep its rate
	if err := db.Model(&models.User{}).Where("id = ?", referrer.ID).
		Update("category", models.CategoryGold).Error; err != nil {
		t.Fatalf("failed to promote referrer: %v", err)
	}

	var reloaded models.Referral
	if err := db.First(&reloaded, edgeA.ID).Error; err != nil {
		t.Fatalf("failed to reload edge: %v", err)
	}
	if !reloaded.CommissionRate.Equal(decimal.NewFromInt(5)) {
		t.Errorf("edge rate changed after promotion: %s", reloaded.CommissionRate)
	}

	// A new edge snapshots the new rate
	referrer.Category = models.CategoryGold
	referredB := createTestUser(t, db, "Referred B", "PSS-RB0001", models.CategoryGold, &referrer.ReferralCode)
	edgeB, err := service.CreateReferral(referrer, referredB.ID)
	if err != nil {
		t.Fatalf("CreateReferral failed: %v", err)
	}
	if !edgeB.CommissionRate.Equal(decimal.NewFromInt(9)) {
		t.Errorf("expected gold rate 9, got %s", edgeB.CommissionRate)
	}
}

func TestCreateReferralRejectsSecondReferrer(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	referrerA := createTestUser(t, db, "Referrer A", "PSS-XA0001", models.CategoryBronze, nil)
	referrerB := createTestUser(t, db, "Referrer B", "PSS-XB0001", models.CategoryBronze, nil)
	referred := createTestUser(t, db, "Referred", "PSS-XC0001", models.CategoryBronze, &referrerA.ReferralCode)

	if _, err := service.CreateReferral(referrerA, referred.ID); err != nil {
		t.Fatalf("first CreateReferral failed: %v", err)
	}
	if _, err := service.CreateReferral(referrerB, referred.ID); err == nil {
		t.Error("expected second referral for the same user to fail")
	}
}

func TestGetReferralStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewReferralService(db)

	referrer := createTestUser(t, db, "Stats Referrer", "PSS-SR0001", models.CategorySilver, nil)

	for i := 0; i < 3; i++ {
		referred := createTestUser(t, db, fmt.Sprintf("Stats Referred %d", i),
			fmt.Sprintf("PSS-SD%04d", i), models.CategorySilver, &referrer.ReferralCode)
		if _, err := service.CreateReferral(referrer, referred.ID); err != nil {
			t.Fatalf("CreateReferral failed: %v", err)
		}
	}

	// Credit some commission and deactivate one edge
	db.Model(&models.Referral{}).Where("referrer_id = ?", referrer.ID).
		Update("commission_earned", decimal.NewFromInt(150))

	var first models.Referral
	if err := db.Where("referrer_id = ?", referrer.ID).First(&first).Error; err != nil {
		t.Fatalf("failed to load edge: %v", err)
	}
	db.Model(&first).Update("is_active", false)

	stats, err := service.GetReferralStats(referrer.ID)
	if err != nil {
		t.Fatalf("GetReferralStats failed: %v", err)
	}

	if stats.TotalReferrals != 3 {
		t.Errorf("expected 3 total referrals, got %d", stats.TotalReferrals)
	}
	if stats.ActiveReferrals != 2 {
		t.Errorf("expected 2 active referrals, got %d", stats.ActiveReferrals)
	}
	if !stats.TotalCommissions.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expected 450 total commissions, got %s", stats.TotalCommissions)
	}
}
