package models

import "time"

// DefaultCategoryColor is assigned when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// Category represents a transaction category. Categories are global,
// shared by all users; only admins may manage them.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	Color       string    `gorm:"size:7;not null" json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
