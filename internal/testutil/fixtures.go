package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// TestPassword is the plaintext password used by all user fixtures.
const TestPassword = "password123"

var fixtureSeq int

func nextSeq() int {
	fixtureSeq++
	return fixtureSeq
}

// CreateTestUser inserts a user with the given role and returns it. The
// email is unique per call within a process.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", nextSeq()),
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory inserts a category with the given name and returns it.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:        name,
		Description: "fixture category",
		Color:       models.DefaultCategoryColor,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction for the given user and
// category and returns it.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, transactionType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: "fixture transaction",
		Date:        date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}
