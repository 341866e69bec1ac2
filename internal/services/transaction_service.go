package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// sortColumns is the allow-list of sortable transaction columns. Anything
// outside it falls back to the date column.
var sortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"description": "description",
	"created_at":  "created_at",
}

// TransactionService implements TransactionServicer. Every operation is
// scoped to the owning user.
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a transaction service.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &TransactionService{db: db}
}

// CreateTransaction records an income or expense entry. The category is
// checked inside the same database transaction as the insert, so a
// concurrent category delete cannot leave a dangling reference.
func (s *TransactionService) CreateTransaction(userID, categoryID uint, transactionType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidReference
			}
			return storeError(err)
		}

		if err := tx.Create(transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrInvalidReference
			}
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Category").First(transaction, transaction.ID).Error; err != nil {
		return nil, storeError(err)
	}
	return transaction, nil
}

// GetUserTransactions lists a user's transactions with filtering, search,
// sorting, and pagination.
func (s *TransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) ([]models.Transaction, pagination.Meta, error) {
	page.Defaults()

	query := s.db.Model(&models.Transaction{}).Where("transactions.user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("transactions.type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("transactions.category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("transactions.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transactions.date < ?", filter.EndDate.AddDate(0, 0, 1))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("LOWER(transactions.description) LIKE ? OR LOWER(categories.name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, storeError(err)
	}

	var transactions []models.Transaction
	err := query.
		Order(sortClause(filter.SortBy, filter.SortOrder)).
		Scopes(pagination.Paginate(page)).
		Preload("Category").
		Find(&transactions).Error
	if err != nil {
		return nil, pagination.Meta{}, storeError(err)
	}

	return transactions, pagination.NewMeta(page, total), nil
}

// GetTransactionByID returns one of the user's transactions. Another
// user's transaction is indistinguishable from a missing one.
func (s *TransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		First(&transaction, transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, storeError(err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields to one of the user's
// transactions. A category change is validated like a create.
func (s *TransactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	if fields.Amount != nil && *fields.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		err := tx.Where("user_id = ?", userID).First(&transaction, transactionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return storeError(err)
		}

		updates := map[string]interface{}{}
		if fields.CategoryID != nil {
			var category models.Category
			if err := tx.First(&category, *fields.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrInvalidReference
				}
				return storeError(err)
			}
			updates["category_id"] = *fields.CategoryID
		}
		if fields.Type != nil {
			updates["type"] = *fields.Type
		}
		if fields.Amount != nil {
			updates["amount"] = *fields.Amount
		}
		if fields.Description != nil {
			updates["description"] = *fields.Description
		}
		if fields.Date != nil {
			updates["date"] = *fields.Date
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&transaction).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrInvalidReference
			}
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes one of the user's transactions.
func (s *TransactionService) DeleteTransaction(userID, transactionID uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Transaction{}, transactionID)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// sortClause builds an ORDER BY fragment from sanitized sort parameters.
// Ties break on creation time so paging stays stable.
func sortClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = "date"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return fmt.Sprintf("transactions.%s %s, transactions.created_at DESC", column, order)
}
