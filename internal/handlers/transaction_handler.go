package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles a user's income and expense records. Every
// operation is scoped to the authenticated caller; mutations invalidate
// the caller's transaction and analytics caches.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	store              cache.Store
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(transactionService services.TransactionServicer, store cache.Store) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, store: store}
}

// CreateTransactionRequest is the request body for recording a transaction.
// Amount is in cents and must be positive.
type CreateTransactionRequest struct {
	CategoryID  uint   `json:"category_id" binding:"required"`
	Type        string `json:"type" binding:"required,transaction_type"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=500"`
	Date        string `json:"date" binding:"required"`
}

// UpdateTransactionRequest is the request body for updating a transaction.
// Absent fields are left unchanged.
type UpdateTransactionRequest struct {
	CategoryID  *uint   `json:"category_id" binding:"omitempty,min=1"`
	Type        *string `json:"type" binding:"omitempty,transaction_type"`
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Date        *string `json:"date"`
}

// listTransactionsQuery holds the query parameters for listing transactions.
type listTransactionsQuery struct {
	pagination.PageRequest
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	CategoryID uint   `form:"category_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// TransactionListResponse is the paginated transaction list envelope.
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   pagination.Meta      `json:"pagination"`
}

// ListTransactions godoc
// @Summary List the caller's transactions
// @Description Paginated list with optional type, category, date range, and text filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param type query string false "income or expense"
// @Param category_id query int false "Category filter"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param search query string false "Matches description or category name"
// @Param sort_by query string false "date, amount, description, or created_at"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} TransactionListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var query listTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Search:    query.Search,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.Type != "" {
		kind := models.TransactionType(query.Type)
		filter.Type = &kind
	}
	if query.CategoryID != 0 {
		filter.CategoryID = &query.CategoryID
	}
	if query.StartDate != "" {
		start, err := parseDate(query.StartDate)
		if err != nil {
			c.Error(err)
			return
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := parseDate(query.EndDate)
		if err != nil {
			c.Error(err)
			return
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		c.Error(apperrors.ErrInvalidRange)
		return
	}

	transactions, meta, err := h.transactionService.GetUserTransactions(getUserID(c), query.PageRequest, filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Transactions: transactions, Pagination: meta})
}

// GetTransaction godoc
// @Summary Get one of the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(getUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.Error(err)
		return
	}

	userID := getUserID(c)
	transaction, err := h.transactionService.CreateTransaction(
		userID, req.CategoryID, models.TransactionType(req.Type), req.Amount, req.Description, date)
	if err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.TransactionMutationTags(userID)...)
	c.JSON(http.StatusCreated, transaction)
}

// UpdateTransaction godoc
// @Summary Update one of the caller's transactions
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Type != nil {
		kind := models.TransactionType(*req.Type)
		fields.Type = &kind
	}
	if req.Date != nil {
		var date time.Time
		if date, err = parseDate(*req.Date); err != nil {
			c.Error(err)
			return
		}
		fields.Date = &date
	}

	userID := getUserID(c)
	transaction, err := h.transactionService.UpdateTransaction(userID, id, fields)
	if err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.TransactionMutationTags(userID)...)
	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction godoc
// @Summary Delete one of the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := getUserID(c)
	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		c.Error(err)
		return
	}

	invalidate(c, h.store, cache.TransactionMutationTags(userID)...)
	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
