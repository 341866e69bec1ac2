package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// CategoryService implements CategoryServicer. Categories form a single
// global namespace shared by all users.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a category service.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &CategoryService{db: db}
}

// CreateCategory adds a category. Names are unique across the whole
// namespace; an empty color falls back to the default.
func (s *CategoryService) CreateCategory(name, description, color string) (*models.Category, error) {
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{
		Name:        name,
		Description: description,
		Color:       color,
	}

	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, storeError(err)
	}

	return category, nil
}

// GetCategories returns all categories ordered by name.
func (s *CategoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, storeError(err)
	}
	return categories, nil
}

// GetCategoryByID returns the category with the given ID.
func (s *CategoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, storeError(err)
	}
	return &category, nil
}

// UpdateCategory applies the non-nil fields to an existing category.
func (s *CategoryService) UpdateCategory(categoryID uint, fields CategoryUpdateFields) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Color != nil {
		updates["color"] = *fields.Color
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, storeError(err)
	}

	return category, nil
}

// DeleteCategory removes a category that no transaction references. The
// pre-check gives a clean error; the RESTRICT foreign key backs it up
// against races.
func (s *CategoryService) DeleteCategory(categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return storeError(err)
		}

		var count int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return storeError(err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Delete(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrCategoryInUse
			}
			return storeError(err)
		}
		return nil
	})
}
