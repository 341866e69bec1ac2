package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewCategoryService(db)

	t.Run("creates category", func(t *testing.T) {
		category, err := svc.CreateCategory("Groceries", "Food and household", "#FF5733")
		testutil.AssertNoError(t, err)
		if category.ID == 0 {
			t.Error("expected category ID to be set")
		}
		if category.Color != "#FF5733" {
			t.Errorf("expected color #FF5733, got %s", category.Color)
		}
	})

	t.Run("defaults color when empty", func(t *testing.T) {
		category, err := svc.CreateCategory("Utilities", "", "")
		testutil.AssertNoError(t, err)
		if category.Color != models.DefaultCategoryColor {
			t.Errorf("expected default color, got %s", category.Color)
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := svc.CreateCategory("Groceries", "again", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})
}

func TestCategoryService_GetCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewCategoryService(db)
	testutil.CreateTestCategory(t, db, "Transport")
	testutil.CreateTestCategory(t, db, "Dining")

	categories, err := svc.GetCategories()
	testutil.AssertNoError(t, err)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Dining" || categories[1].Name != "Transport" {
		t.Errorf("expected name order [Dining Transport], got [%s %s]", categories[0].Name, categories[1].Name)
	}
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewCategoryService(db)
	category := testutil.CreateTestCategory(t, db, "Entertainment")
	other := testutil.CreateTestCategory(t, db, "Health")

	t.Run("applies partial update", func(t *testing.T) {
		name := "Leisure"
		color := "#00FF00"
		updated, err := svc.UpdateCategory(category.ID, CategoryUpdateFields{Name: &name, Color: &color})
		testutil.AssertNoError(t, err)
		if updated.Name != "Leisure" {
			t.Errorf("expected name Leisure, got %s", updated.Name)
		}
		if updated.Color != "#00FF00" {
			t.Errorf("expected color #00FF00, got %s", updated.Color)
		}
		if updated.Description != category.Description {
			t.Error("expected description to be unchanged")
		}
	})

	t.Run("rejects rename onto existing name", func(t *testing.T) {
		name := other.Name
		_, err := svc.UpdateCategory(category.ID, CategoryUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("missing category", func(t *testing.T) {
		name := "Ghost"
		_, err := svc.UpdateCategory(99999, CategoryUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db, models.RoleUser)

	t.Run("deletes unused category", func(t *testing.T) {
		category := testutil.CreateTestCategory(t, db, "Temporary")
		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))

		_, err := svc.GetCategoryByID(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("refuses referenced category", func(t *testing.T) {
		category := testutil.CreateTestCategory(t, db, "Rent")
		testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeExpense, 120000, time.Now())

		err := svc.DeleteCategory(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")

		// Still there.
		_, err = svc.GetCategoryByID(category.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("missing category", func(t *testing.T) {
		testutil.AssertAppError(t, svc.DeleteCategory(99999), "CATEGORY_NOT_FOUND")
	})
}
