package services

import (
	"testing"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestAnalyticsService_Overview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAnalyticsService(db)
	user := testutil.CreateTestUser(t, db, models.RoleUser)
	other := testutil.CreateTestUser(t, db, models.RoleUser)
	salary := testutil.CreateTestCategory(t, db, "Salary")
	groceries := testutil.CreateTestCategory(t, db, "Groceries")

	testutil.CreateTestTransaction(t, db, user.ID, salary.ID, models.TransactionTypeIncome, 2000000, day(2026, time.August, 1))
	testutil.CreateTestTransaction(t, db, user.ID, groceries.ID, models.TransactionTypeExpense, 500000, day(2026, time.August, 5))
	testutil.CreateTestTransaction(t, db, user.ID, groceries.ID, models.TransactionTypeExpense, 300000, day(2026, time.August, 20))
	// Outside the range and outside the user scope.
	testutil.CreateTestTransaction(t, db, user.ID, groceries.ID, models.TransactionTypeExpense, 100000, day(2026, time.July, 31))
	testutil.CreateTestTransaction(t, db, other.ID, groceries.ID, models.TransactionTypeExpense, 999999, day(2026, time.August, 5))

	r := analytics.Range{Start: day(2026, time.August, 1), End: day(2026, time.August, 31)}
	overview, err := svc.Overview(user.ID, r)
	testutil.AssertNoError(t, err)

	if overview.TotalIncome != 2000000 {
		t.Errorf("expected income 2000000, got %d", overview.TotalIncome)
	}
	if overview.TotalExpenses != 800000 {
		t.Errorf("expected expenses 800000, got %d", overview.TotalExpenses)
	}
	if overview.NetIncome != 1200000 {
		t.Errorf("expected net 1200000, got %d", overview.NetIncome)
	}
	if overview.SavingsRate != 60.0 {
		t.Errorf("expected savings rate 60.0, got %v", overview.SavingsRate)
	}
}

func TestAnalyticsService_ExpensesByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAnalyticsService(db)
	user := testutil.CreateTestUser(t, db, models.RoleUser)
	groceries := testutil.CreateTestCategory(t, db, "Groceries")
	dining := testutil.CreateTestCategory(t, db, "Dining")
	testutil.CreateTestCategory(t, db, "Unused")

	testutil.CreateTestTransaction(t, db, user.ID, groceries.ID, models.TransactionTypeExpense, 7500, day(2026, time.August, 2))
	testutil.CreateTestTransaction(t, db, user.ID, dining.ID, models.TransactionTypeExpense, 2500, day(2026, time.August, 9))

	r := analytics.Range{Start: day(2026, time.August, 1), End: day(2026, time.August, 31)}
	breakdown, err := svc.ExpensesByCategory(user.ID, r)
	testutil.AssertNoError(t, err)

	if len(breakdown.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(breakdown.Categories))
	}
	if breakdown.Categories[0].Name != "Groceries" || breakdown.Categories[0].Percentage != 75.0 {
		t.Errorf("expected Groceries at 75%%, got %s at %v", breakdown.Categories[0].Name, breakdown.Categories[0].Percentage)
	}
	if breakdown.Categories[1].Name != "Dining" || breakdown.Categories[1].Percentage != 25.0 {
		t.Errorf("expected Dining at 25%%, got %s at %v", breakdown.Categories[1].Name, breakdown.Categories[1].Percentage)
	}
	if breakdown.TotalExpenses != 10000 {
		t.Errorf("expected total 10000, got %d", breakdown.TotalExpenses)
	}
}

func TestAnalyticsService_MonthlyTrends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAnalyticsService(db)
	user := testutil.CreateTestUser(t, db, models.RoleUser)
	salary := testutil.CreateTestCategory(t, db, "Salary")

	testutil.CreateTestTransaction(t, db, user.ID, salary.ID, models.TransactionTypeIncome, 500000, day(2026, time.March, 1))
	// Different year, must not appear.
	testutil.CreateTestTransaction(t, db, user.ID, salary.ID, models.TransactionTypeIncome, 400000, day(2025, time.March, 1))

	trends, err := svc.MonthlyTrends(user.ID, 2026, 12)
	testutil.AssertNoError(t, err)

	if len(trends.Months) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(trends.Months))
	}
	if trends.Months[2].Income != 500000 {
		t.Errorf("expected March income 500000, got %d", trends.Months[2].Income)
	}
	for i, bucket := range trends.Months {
		if i != 2 && bucket.Income != 0 {
			t.Errorf("expected zero income in bucket %s, got %d", bucket.Month, bucket.Income)
		}
	}

	t.Run("bucket count out of range defaults to 12", func(t *testing.T) {
		trends, err := svc.MonthlyTrends(user.ID, 2026, 40)
		testutil.AssertNoError(t, err)
		if len(trends.Months) != 12 {
			t.Errorf("expected 12 buckets, got %d", len(trends.Months))
		}
	})
}

func TestAnalyticsService_RecentTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewAnalyticsService(db)
	user := testutil.CreateTestUser(t, db, models.RoleUser)
	category := testutil.CreateTestCategory(t, db, "Groceries")

	for i := 1; i <= 15; i++ {
		testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeExpense, int64(i*100), day(2026, time.August, i))
	}

	t.Run("defaults to 10 newest first", func(t *testing.T) {
		transactions, err := svc.RecentTransactions(user.ID, 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 10 {
			t.Fatalf("expected 10 transactions, got %d", len(transactions))
		}
		if !transactions[0].Date.Equal(day(2026, time.August, 15)) {
			t.Errorf("expected newest first, got %v", transactions[0].Date)
		}
		if transactions[0].Category.Name != "Groceries" {
			t.Error("expected category preloaded")
		}
	})

	t.Run("honors explicit limit", func(t *testing.T) {
		transactions, err := svc.RecentTransactions(user.ID, 5)
		testutil.AssertNoError(t, err)
		if len(transactions) != 5 {
			t.Errorf("expected 5 transactions, got %d", len(transactions))
		}
	})
}
