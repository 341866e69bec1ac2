package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
// Amount is stored in cents (two implied fractional digits).
// Date is the user-assigned calendar date of the transaction,
// distinct from the CreatedAt record timestamp.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"size:500" json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
