package services

import (
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryUpdateFields holds the optional fields of a category update.
// Nil means "leave unchanged".
type CategoryUpdateFields struct {
	Name        *string
	Description *string
	Color       *string
}

// CategoryServicer defines the contract for category-related business logic.
// Categories are global: no operation takes a user scope.
type CategoryServicer interface {
	CreateCategory(name, description, color string) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	UpdateCategory(categoryID uint, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// TransactionFilter holds optional filter and sort parameters for listing
// transactions. SortBy and SortOrder are sanitized against allow-lists
// before they reach SQL.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	SortBy     string
	SortOrder  string
}

// TransactionUpdateFields holds the optional fields of a transaction
// update. Nil means "leave unchanged".
type TransactionUpdateFields struct {
	CategoryID  *uint
	Type        *models.TransactionType
	Amount      *int64
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, categoryID uint, transactionType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) ([]models.Transaction, pagination.Meta, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// AnalyticsServicer defines the contract for the aggregate read models.
type AnalyticsServicer interface {
	Overview(userID uint, r analytics.Range) (*analytics.Overview, error)
	ExpensesByCategory(userID uint, r analytics.Range) (*analytics.Breakdown, error)
	MonthlyTrends(userID uint, year, months int) (*analytics.Trends, error)
	SpendingPatterns(userID uint, r analytics.Range) ([]analytics.Pattern, error)
	RecentTransactions(userID uint, limit int) ([]models.Transaction, error)
}
