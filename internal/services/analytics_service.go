package services

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/models"
)

// AnalyticsService computes the admin analytics snapshot. All aggregates
// are read-only and tolerant of empty data.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// DailyCount is one day's registration count.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// InvestmentTrend is one day's investment volume.
type InvestmentTrend struct {
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int64           `json:"count"`
}

// CategoryCount is the number of users in one category.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int64           `json:"count"`
}

// TopReferrer is one row of the top-referrers leaderboard.
type TopReferrer struct {
	ReferrerID       uint            `json:"referrer_id"`
	ReferrerName     string          `json:"referrer_name"`
	ReferrerCategory models.Category `json:"referrer_category"`
	TotalReferrals   int64           `json:"total_referrals"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
}

// RevenueAnalytics sums transaction amounts per type within the window.
type RevenueAnalytics struct {
	TotalInvested    decimal.Decimal `json:"total_invested"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
}

// Period is the resolved analytics window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AnalyticsSnapshot merges the five independent aggregates.
type AnalyticsSnapshot struct {
	UserGrowth           []DailyCount      `json:"user_growth"`
	InvestmentTrends     []InvestmentTrend `json:"investment_trends"`
	CategoryDistribution []CategoryCount   `json:"category_distribution"`
	TopReferrers         []TopReferrer     `json:"top_referrers"`
	Revenue              RevenueAnalytics  `json:"revenue_analytics"`
	Period               Period            `json:"period"`
}

// ComputeAnalytics produces the snapshot for the given window, defaulting to
// the trailing 30 days. The five aggregates are independent reads and run
// concurrently; correctness does not depend on their ordering.
func (s *AnalyticsService) ComputeAnalytics(start, end *time.Time) (*AnalyticsSnapshot, error) {
	resolvedEnd := time.Now()
	if end != nil {
		resolvedEnd = *end
	}
	resolvedStart := resolvedEnd.Add(-30 * 24 * time.Hour)
	if start != nil {
		resolvedStart = *start
	}

	snapshot := &AnalyticsSnapshot{
		UserGrowth:           []DailyCount{},
		InvestmentTrends:     []InvestmentTrend{},
		CategoryDistribution: []CategoryCount{},
		TopReferrers:         []TopReferrer{},
		Revenue: RevenueAnalytics{
			TotalInvested:    decimal.Zero,
			TotalCommissions: decimal.Zero,
			TotalWithdrawals: decimal.Zero,
		},
		Period: Period{Start: resolvedStart, End: resolvedEnd},
	}

	var wg sync.WaitGroup
	errs := make([]error, 5)

	wg.Add(5)
	go func() {
		defer wg.Done()
		snapshot.UserGrowth, errs[0] = s.userGrowth(resolvedStart, resolvedEnd)
	}()
	go func() {
		defer wg.Done()
		snapshot.InvestmentTrends, errs[1] = s.investmentTrends(resolvedStart, resolvedEnd)
	}()
	go func() {
		defer wg.Done()
		snapshot.CategoryDistribution, errs[2] = s.categoryDistribution()
	}()
	go func() {
		defer wg.Done()
		snapshot.TopReferrers, errs[3] = s.topReferrers(10)
	}()
	go func() {
		defer wg.Done()
		snapshot.Revenue, errs[4] = s.revenueAnalytics(resolvedStart, resolvedEnd)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

// userGrowth counts registrations per calendar day, ascending by date.
func (s *AnalyticsService) userGrowth(start, end time.Time) ([]DailyCount, error) {
	daily := []DailyCount{}
	err := s.db.Model(&models.User{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("DATE(created_at)").
		Order("DATE(created_at)").
		Scan(&daily).Error
	return daily, err
}

// investmentTrends sums investment amounts and counts records per day.
func (s *AnalyticsService) investmentTrends(start, end time.Time) ([]InvestmentTrend, error) {
	trends := []InvestmentTrend{}
	err := s.db.Model(&models.Investment{}).
		Select("DATE(created_at) as date, COALESCE(SUM(amount), 0) as total_amount, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("DATE(created_at)").
		Order("DATE(created_at)").
		Scan(&trends).Error
	return trends, err
}

// categoryDistribution counts all users per category, unbounded by window.
func (s *AnalyticsService) categoryDistribution() ([]CategoryCount, error) {
	distribution := []CategoryCount{}
	err := s.db.Model(&models.User{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&distribution).Error
	return distribution, err
}

// topReferrers returns the busiest referrers by edge count with their summed
// commission earned.
func (s *AnalyticsService) topReferrers(limit int) ([]TopReferrer, error) {
	top := []TopReferrer{}
	err := s.db.Model(&models.Referral{}).
		Select("referrals.referrer_id as referrer_id, users.full_name as referrer_name, users.category as referrer_category, COUNT(*) as total_referrals, COALESCE(SUM(referrals.commission_earned), 0) as total_commissions").
		Joins("INNER JOIN users ON users.id = referrals.referrer_id").
		Group("referrals.referrer_id, users.full_name, users.category").
		Order("COUNT(*) DESC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// revenueAnalytics sums transactions per type inside the window, zero when
// no rows match.
func (s *AnalyticsService) revenueAnalytics(start, end time.Time) (RevenueAnalytics, error) {
	revenue := RevenueAnalytics{
		TotalInvested:    decimal.Zero,
		TotalCommissions: decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}
	err := s.db.Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0) as total_invested, " +
				"COALESCE(SUM(CASE WHEN type = 'commission' THEN amount ELSE 0 END), 0) as total_commissions, " +
				"COALESCE(SUM(CASE WHEN type = 'withdrawal' THEN amount ELSE 0 END), 0) as total_withdrawals").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Scan(&revenue).Error
	return revenue, err
}
