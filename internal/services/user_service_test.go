package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestUserService_CreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewUserService(db)

	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := svc.CreateUser("Alice@Example.com", "s3cretpass", "Alice", "Smith", models.RoleUser)
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Error("expected user ID to be set")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "s3cretpass" {
			t.Error("password stored in plaintext")
		}
		if !svc.VerifyPassword(user, "s3cretpass") {
			t.Error("expected password to verify")
		}
		if svc.VerifyPassword(user, "wrongpass") {
			t.Error("expected wrong password to fail verification")
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser("bob@example.com", "s3cretpass", "Bob", "Jones", models.RoleUser)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("BOB@example.com", "otherpass", "Bobby", "Jones", models.RoleUser)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("preserves the requested role", func(t *testing.T) {
		user, err := svc.CreateUser("viewer@example.com", "s3cretpass", "Vera", "Viewer", models.RoleReadOnly)
		testutil.AssertNoError(t, err)
		if user.Role != models.RoleReadOnly {
			t.Errorf("expected role %s, got %s", models.RoleReadOnly, user.Role)
		}
	})
}

func TestUserService_GetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewUserService(db)
	created := testutil.CreateTestUser(t, db, models.RoleUser)

	t.Run("by email", func(t *testing.T) {
		user, err := svc.GetUserByEmail(created.Email)
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("by id", func(t *testing.T) {
		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)
		if user.Email != created.Email {
			t.Errorf("expected email %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := svc.GetUserByEmail("nobody@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetUserByID(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
