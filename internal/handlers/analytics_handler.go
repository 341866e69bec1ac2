package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// AnalyticsHandler serves the aggregate read models. All routes are
// GET-only and sit behind the analytics cache class.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// period echoes the resolved date range back to the client so callers can
// see what defaults were applied.
func period(r analytics.Range) gin.H {
	return gin.H{
		"startDate": r.Start.Format("2006-01-02"),
		"endDate":   r.End.Format("2006-01-02"),
	}
}

func rangeFromQuery(c *gin.Context) (analytics.Range, bool) {
	r, err := analytics.ParseRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.Error(err)
		return analytics.Range{}, false
	}
	return r, true
}

// GetOverview godoc
// @Summary Income, expense, and savings totals for a period
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD), defaults to the first of the current month"
// @Param end_date query string false "End date (YYYY-MM-DD), defaults to today"
// @Param period query string false "Period label echoed back (month, year, custom)"
// @Success 200 {object} analytics.Overview
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	overview, err := h.analyticsService.Overview(getUserID(c), r)
	if err != nil {
		c.Error(err)
		return
	}

	// The period label is a client-side display hint, echoed untouched.
	echo := period(r)
	echo["type"] = c.DefaultQuery("period", "month")

	c.JSON(http.StatusOK, gin.H{
		"totalIncome":   overview.TotalIncome,
		"totalExpenses": overview.TotalExpenses,
		"netIncome":     overview.NetIncome,
		"savingsRate":   overview.SavingsRate,
		"period":        echo,
	})
}

// GetExpensesByCategory godoc
// @Summary Per-category expense breakdown for a period
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} analytics.Breakdown
// @Failure 400 {object} ErrorResponse
// @Router /analytics/expenses-by-category [get]
func (h *AnalyticsHandler) GetExpensesByCategory(c *gin.Context) {
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	breakdown, err := h.analyticsService.ExpensesByCategory(getUserID(c), r)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":    breakdown.Categories,
		"totalExpenses": breakdown.TotalExpenses,
		"period":        period(r),
	})
}

// GetMonthlyTrends godoc
// @Summary Per-month income and expense series for a calendar year
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param year query int false "Calendar year, defaults to the current year"
// @Param months query int false "Number of buckets from January (1-12, defaults to 12)"
// @Success 200 {object} analytics.Trends
// @Failure 400 {object} ErrorResponse
// @Router /analytics/monthly-trends [get]
func (h *AnalyticsHandler) GetMonthlyTrends(c *gin.Context) {
	year, err := intQuery(c, "year", 0)
	if err != nil {
		c.Error(err)
		return
	}
	months, err := intQuery(c, "months", 0)
	if err != nil {
		c.Error(err)
		return
	}

	trends, err := h.analyticsService.MonthlyTrends(getUserID(c), year, months)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

// GetSpendingPatterns godoc
// @Summary Transaction counts and averages by weekday, hour, and type
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} analytics.Pattern
// @Failure 400 {object} ErrorResponse
// @Router /analytics/spending-patterns [get]
func (h *AnalyticsHandler) GetSpendingPatterns(c *gin.Context) {
	r, ok := rangeFromQuery(c)
	if !ok {
		return
	}

	patterns, err := h.analyticsService.SpendingPatterns(getUserID(c), r)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patterns": patterns,
		"period":   period(r),
	})
}

// GetRecentTransactions godoc
// @Summary The caller's most recent transactions
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of transactions (1-100, defaults to 10)"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Router /analytics/recent-transactions [get]
func (h *AnalyticsHandler) GetRecentTransactions(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		c.Error(err)
		return
	}

	transactions, err := h.analyticsService.RecentTransactions(getUserID(c), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	value := c.Query(name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+name+" parameter")
	}
	return n, nil
}
