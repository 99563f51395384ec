package models

import (
	"github.com/shopspring/decimal"
)

// Category is the investment tier a user belongs to. Tiers are ordered;
// a user moves up tiers automatically as their cumulative investment grows.
type Category string

const (
	CategoryBronze   Category = "bronze"
	CategorySilver   Category = "silver"
	CategoryGold     Category = "gold"
	CategoryPlatinum Category = "platinum"
	CategoryDiamond  Category = "diamond"
	CategoryElite    Category = "elite"
)

// categoryOrder lists all categories from lowest to highest tier.
var categoryOrder = []Category{
	CategoryBronze,
	CategorySilver,
	CategoryGold,
	CategoryPlatinum,
	CategoryDiamond,
	CategoryElite,
}

// commissionRates maps a referrer's category to the commission percentage
// snapshotted onto new referral edges.
var commissionRates = map[Category]decimal.Decimal{
	CategoryBronze:   decimal.NewFromInt(5),
	CategorySilver:   decimal.NewFromInt(7),
	CategoryGold:     decimal.NewFromInt(9),
	CategoryPlatinum: decimal.NewFromInt(10),
	CategoryDiamond:  decimal.NewFromInt(11),
	CategoryElite:    decimal.NewFromFloat(12.5),
}

// monthlyROIRates maps an investment's category to its simulated monthly
// return percentage.
var monthlyROIRates = map[Category]decimal.Decimal{
	CategoryBronze:   decimal.NewFromInt(5),
	CategorySilver:   decimal.NewFromInt(6),
	CategoryGold:     decimal.NewFromInt(7),
	CategoryPlatinum: decimal.NewFromInt(8),
	CategoryDiamond:  decimal.NewFromInt(9),
	CategoryElite:    decimal.NewFromInt(10),
}

// UpgradeThreshold pairs a category with the minimum cumulative investment
// required to reach it. Bronze is the entry tier and has no threshold.
type UpgradeThreshold struct {
	Category  Category
	Threshold decimal.Decimal
}

// UpgradeThresholds is ordered from lowest to highest tier. The promotion
// engine scans the whole table and keeps the highest qualifying tier, so a
// single large deposit can jump several tiers at once.
var UpgradeThresholds = []UpgradeThreshold{
	{CategorySilver, decimal.NewFromInt(10000)},
	{CategoryGold, decimal.NewFromInt(50000)},
	{CategoryPlatinum, decimal.NewFromInt(200000)},
	{CategoryDiamond, decimal.NewFromInt(1000000)},
	{CategoryElite, decimal.NewFromInt(10000000)},
}

// Level returns the ordinal position of the category (bronze=1 .. elite=6),
// or 0 for an unknown value.
func (c Category) Level() int {
	for i, cat := range categoryOrder {
		if cat == c {
			return i + 1
		}
	}
	return 0
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	return c.Level() > 0
}

// CommissionRate returns the commission percentage for a referrer of the
// given category. Unknown categories get a zero rate.
func CommissionRate(c Category) decimal.Decimal {
	if rate, ok := commissionRates[c]; ok {
		return rate
	}
	return decimal.Zero
}

// MonthlyROIRate returns the simulated monthly return percentage for an
// investment made in the given category.
func MonthlyROIRate(c Category) decimal.Decimal {
	if rate, ok := monthlyROIRates[c]; ok {
		return rate
	}
	return decimal.Zero
}

// AllCategories returns the ordered list of categories, lowest tier first.
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
