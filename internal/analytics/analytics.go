// Package analytics computes the derived read models: overview totals,
// category breakdowns, monthly trend series, and spending-pattern
// histograms. All computation is pure over a transaction slice the caller
// has already scoped to a user and date range; amounts are cents.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// dayNames maps Sunday-first day-of-week indexes to display names.
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Overview holds period totals and the derived savings rate.
type Overview struct {
	TotalIncome   int64   `json:"totalIncome"`
	TotalExpenses int64   `json:"totalExpenses"`
	NetIncome     int64   `json:"netIncome"`
	SavingsRate   float64 `json:"savingsRate"`
}

// CategorySummary is one category's share of expenses in a period.
type CategorySummary struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Color            string  `json:"color"`
	Amount           int64   `json:"amount"`
	TransactionCount int     `json:"transactionCount"`
	Percentage       float64 `json:"percentage"`
}

// Breakdown is the per-category expense breakdown for a period.
type Breakdown struct {
	Categories    []CategorySummary `json:"categories"`
	TotalExpenses int64             `json:"totalExpenses"`
}

// MonthBucket is one month's totals in a trend series.
type MonthBucket struct {
	Month     string `json:"month"`
	MonthName string `json:"monthName"`
	Income    int64  `json:"income"`
	Expenses  int64  `json:"expenses"`
	Net       int64  `json:"net"`
}

// Trends is a fixed-length series of monthly buckets for one year.
type Trends struct {
	Year   int           `json:"year"`
	Months []MonthBucket `json:"months"`
}

// Pattern is the average amount and count for one
// (day-of-week, hour-of-day, type) group.
type Pattern struct {
	DayOfWeek        int                    `json:"dayOfWeek"`
	DayName          string                 `json:"dayName"`
	HourOfDay        int                    `json:"hourOfDay"`
	Type             models.TransactionType `json:"type"`
	AvgAmount        float64                `json:"avgAmount"`
	TransactionCount int                    `json:"transactionCount"`
}

// Range is an inclusive calendar date range.
type Range struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// ParseRange validates start_date/end_date query values (ISO calendar
// dates). Empty values default to the first of the current month and
// today respectively.
func ParseRange(startStr, endStr string) (Range, error) {
	now := time.Now().UTC()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return Range{}, apperrors.WithMessage(apperrors.ErrValidation, "Invalid date format")
		}
		start = parsed
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return Range{}, apperrors.WithMessage(apperrors.ErrValidation, "Invalid date format")
		}
		end = parsed
	}

	if start.After(end) {
		return Range{}, apperrors.ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// ComputeOverview sums amounts per kind and derives net income and the
// savings rate. A period with no income has a savings rate of zero, not
// a division error. The rate is not clamped; it tracks the data.
func ComputeOverview(txns []models.Transaction) Overview {
	var o Overview
	for _, t := range txns {
		switch t.Type {
		case models.TransactionTypeIncome:
			o.TotalIncome += t.Amount
		case models.TransactionTypeExpense:
			o.TotalExpenses += t.Amount
		}
	}
	o.NetIncome = o.TotalIncome - o.TotalExpenses
	if o.TotalIncome > 0 {
		o.SavingsRate = round2(float64(o.NetIncome) / float64(o.TotalIncome) * 100)
	}
	return o
}

// ComputeCategoryBreakdown sums expense amounts and transaction counts per
// category. Categories with no expense in the period are excluded; the rest
// are ordered descending by amount, with percentages computed against the
// sum of included categories.
func ComputeCategoryBreakdown(txns []models.Transaction, categories []models.Category) Breakdown {
	type bucket struct {
		amount int64
		count  int
	}
	buckets := make(map[uint]*bucket)
	for _, t := range txns {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		b := buckets[t.CategoryID]
		if b == nil {
			b = &bucket{}
			buckets[t.CategoryID] = b
		}
		b.amount += t.Amount
		b.count++
	}

	result := Breakdown{Categories: []CategorySummary{}}
	for _, c := range categories {
		b := buckets[c.ID]
		if b == nil || b.amount == 0 {
			continue
		}
		result.Categories = append(result.Categories, CategorySummary{
			ID:               c.ID,
			Name:             c.Name,
			Color:            c.Color,
			Amount:           b.amount,
			TransactionCount: b.count,
		})
		result.TotalExpenses += b.amount
	}

	sort.Slice(result.Categories, func(i, j int) bool {
		if result.Categories[i].Amount != result.Categories[j].Amount {
			return result.Categories[i].Amount > result.Categories[j].Amount
		}
		return result.Categories[i].Name < result.Categories[j].Name
	})

	if result.TotalExpenses > 0 {
		for i := range result.Categories {
			result.Categories[i].Percentage = round2(float64(result.Categories[i].Amount) / float64(result.TotalExpenses) * 100)
		}
	}
	return result
}

// ComputeMonthlyTrends builds a zero-filled series of months buckets for the
// year (January first), then overlays the actual per-month sums. The series
// length is fixed regardless of data sparsity.
func ComputeMonthlyTrends(txns []models.Transaction, year, months int) Trends {
	trends := Trends{Year: year, Months: make([]MonthBucket, months)}
	for i := range trends.Months {
		m := time.Month(i + 1)
		trends.Months[i] = MonthBucket{
			Month:     fmt.Sprintf("%04d-%02d", year, i+1),
			MonthName: m.String()[:3],
		}
	}

	for _, t := range txns {
		if t.Date.Year() != year {
			continue
		}
		idx := int(t.Date.Month()) - 1
		if idx >= len(trends.Months) {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			trends.Months[idx].Income += t.Amount
		case models.TransactionTypeExpense:
			trends.Months[idx].Expenses += t.Amount
		}
	}

	for i := range trends.Months {
		trends.Months[i].Net = trends.Months[i].Income - trends.Months[i].Expenses
	}
	return trends
}

// ComputeSpendingPatterns groups transactions by (day-of-week, hour-of-day,
// type) and computes the arithmetic mean amount and count per group. The day
// comes from the user-assigned transaction date, the hour from the record
// creation timestamp. Groups are ordered by day, hour, then type.
func ComputeSpendingPatterns(txns []models.Transaction) []Pattern {
	type groupKey struct {
		day  int
		hour int
		kind models.TransactionType
	}
	type bucket struct {
		total int64
		count int
	}
	buckets := make(map[groupKey]*bucket)
	for _, t := range txns {
		k := groupKey{
			day:  int(t.Date.Weekday()),
			hour: t.CreatedAt.Hour(),
			kind: t.Type,
		}
		b := buckets[k]
		if b == nil {
			b = &bucket{}
			buckets[k] = b
		}
		b.total += t.Amount
		b.count++
	}

	patterns := make([]Pattern, 0, len(buckets))
	for k, b := range buckets {
		patterns = append(patterns, Pattern{
			DayOfWeek:        k.day,
			DayName:          dayNames[k.day],
			HourOfDay:        k.hour,
			Type:             k.kind,
			AvgAmount:        float64(b.total) / float64(b.count),
			TransactionCount: b.count,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].DayOfWeek != patterns[j].DayOfWeek {
			return patterns[i].DayOfWeek < patterns[j].DayOfWeek
		}
		if patterns[i].HourOfDay != patterns[j].HourOfDay {
			return patterns[i].HourOfDay < patterns[j].HourOfDay
		}
		return patterns[i].Type < patterns[j].Type
	})
	return patterns
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
