package models

import "time"

// Base contains common columns for all tables. Rows are hard-deleted;
// the referential rules in this schema depend on real reference counts,
// so soft-deleted rows must not linger.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
