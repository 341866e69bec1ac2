package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// CategoryHandler handles the global category catalog. Reads are open to
// every authenticated role; mutations are gated to category managers by
// route middleware and invalidate the category and analytics caches.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	store           cache.Store
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(categoryService services.CategoryServicer, store cache.Store) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, store: store}
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50,category_name"`
	Description string `json:"description" binding:"max=200"`
	Color       string `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCategoryRequest is the request body for updating a category.
// Absent fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50,category_name"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Color       *string `json:"color" binding:"omitempty,hex_color"`
}

// ListCategories godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Failure 401 {object} ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category details"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Description, req.Color)
	if err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.CategoryMutationTags()...)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} models.Category
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(id, services.CategoryUpdateFields{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.CategoryMutationTags()...)
	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category that no transaction references
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.CategoryMutationTags()...)
	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
