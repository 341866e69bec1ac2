package services

import (
	"time"

	"gorm.io/gorm"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
)

const defaultRecentLimit = 10

// AnalyticsService implements AnalyticsServicer. It loads the relevant
// rows and delegates all aggregation to the pure functions in the
// analytics package, so the math stays testable without a database.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) transactionsInRange(userID uint, r analytics.Range) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, r.Start, r.End.AddDate(0, 0, 1)).
		Find(&transactions).Error
	if err != nil {
		return nil, storeError(err)
	}
	return transactions, nil
}

// Overview returns income, expense, net, and savings rate totals for the
// user over the range.
func (s *AnalyticsService) Overview(userID uint, r analytics.Range) (*analytics.Overview, error) {
	transactions, err := s.transactionsInRange(userID, r)
	if err != nil {
		return nil, err
	}
	overview := analytics.ComputeOverview(transactions)
	return &overview, nil
}

// ExpensesByCategory returns the per-category expense breakdown for the
// user over the range.
func (s *AnalyticsService) ExpensesByCategory(userID uint, r analytics.Range) (*analytics.Breakdown, error) {
	transactions, err := s.transactionsInRange(userID, r)
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, storeError(err)
	}

	breakdown := analytics.ComputeCategoryBreakdown(transactions, categories)
	return &breakdown, nil
}

// MonthlyTrends returns per-month income and expense buckets for a
// calendar year. The bucket count is clamped to 1..12 and defaults to
// the full year.
func (s *AnalyticsService) MonthlyTrends(userID uint, year, months int) (*analytics.Trends, error) {
	if year <= 0 {
		year = time.Now().UTC().Year()
	}
	if months <= 0 || months > 12 {
		months = 12
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var transactions []models.Transaction
	err := s.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&transactions).Error
	if err != nil {
		return nil, storeError(err)
	}

	trends := analytics.ComputeMonthlyTrends(transactions, year, months)
	return &trends, nil
}

// SpendingPatterns returns transaction counts and averages grouped by
// weekday, hour of day, and type over the range.
func (s *AnalyticsService) SpendingPatterns(userID uint, r analytics.Range) ([]analytics.Pattern, error) {
	transactions, err := s.transactionsInRange(userID, r)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeSpendingPatterns(transactions), nil
}

// RecentTransactions returns the user's most recent transactions, newest
// first by transaction date and then by creation time.
func (s *AnalyticsService) RecentTransactions(userID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRecentLimit
	}

	var transactions []models.Transaction
	err := s.db.
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&transactions).Error
	if err != nil {
		return nil, storeError(err)
	}
	return transactions, nil
}
