package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is a fixed-point decimal string; direction is carried by the type.
type CreateTransactionRequest struct {
	AccountID   string                 `json:"account_id" binding:"required,uuid"`
	CategoryID  *string                `json:"category_id" binding:"omitempty,uuid"`
	Type        models.TransactionType `json:"transaction_type" binding:"required,transaction_type"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Date        models.Date            `json:"date"`
	Description string                 `json:"description" binding:"max=500"`
	Reference   string                 `json:"reference" binding:"max=100"`
	Notes       string                 `json:"notes" binding:"max=1000"`
	IsRecurring bool                   `json:"is_recurring"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create a transaction; the owning account's balance is adjusted in the same database transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(services.TransactionInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Notes:       req.Notes,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles the retrieval of transactions
// @Summary     List transactions
// @Description Get a paginated list of transactions with optional filters
// @Tags        transactions
// @Produce     json
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Param       start_date   query string false "Include transactions dated on or after (YYYY-MM-DD)"
// @Param       end_date     query string false "Include transactions dated on or before (YYYY-MM-DD)"
// @Param       transaction_type query string false "Filter by type (income, expense, transfer)"
// @Param       account_id   query string false "Filter by account ID"
// @Param       category_id  query string false "Filter by category ID"
// @Param       is_recurring query bool   false "Filter by recurring flag"
// @Param       search       query string false "Free-text search over description, notes, and reference"
// @Param       ordering     query string false "Order by date, amount, or created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	filter := services.TransactionFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	var err error
	if filter.FromDate, err = parseDateQuery(c, "start_date"); err != nil {
		return filter, err
	}
	if filter.ToDate, err = parseDateQuery(c, "end_date"); err != nil {
		return filter, err
	}

	if v := c.Query("transaction_type"); v != "" {
		txType := models.TransactionType(v)
		switch txType {
		case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
			filter.Type = &txType
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction_type, must be income, expense, or transfer")
		}
	}

	if v := c.Query("account_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account_id")
		}
		filter.AccountID = &v
	}
	if v := c.Query("category_id"); v != "" {
		if !uuid.IsValid(v) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id")
		}
		filter.CategoryID = &v
	}

	if filter.IsRecurring, err = parseBoolQuery(c, "is_recurring"); err != nil {
		return filter, err
	}

	return filter, nil
}

// GetTransactionByID handles the retrieval of a single transaction
// @Summary     Get transaction
// @Description Get a transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
type UpdateTransactionRequest struct {
	AccountID   *string                 `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string                 `json:"category_id"`
	Type        *models.TransactionType `json:"transaction_type" binding:"omitempty,transaction_type"`
	Amount      *decimal.Decimal        `json:"amount"`
	Date        *models.Date            `json:"date"`
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	Reference   *string                 `json:"reference" binding:"omitempty,max=100"`
	Notes       *string                 `json:"notes" binding:"omitempty,max=1000"`
	IsRecurring *bool                   `json:"is_recurring"`
}

// UpdateTransaction handles a partial transaction update
// @Summary     Update transaction
// @Description Update a transaction; the prior balance effect is reversed and the new one applied atomically
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Notes:       req.Notes,
		IsRecurring: req.IsRecurring,
	}

	// category_id: absent = unchanged, empty string = clear, otherwise set.
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			var cleared *string
			fields.CategoryID = &cleared
		} else {
			if !uuid.IsValid(*req.CategoryID) {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id"))
				return
			}
			fields.CategoryID = &req.CategoryID
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction, reversing its effect on the account balance
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetSummary handles the transaction summary aggregation
// @Summary     Transaction summary
// @Description Get income, expense, and net totals over the filtered transaction set
// @Tags        transactions
// @Produce     json
// @Param       start_date query string false "Include transactions dated on or after (YYYY-MM-DD)"
// @Param       end_date   query string false "Include transactions dated on or before (YYYY-MM-DD)"
// @Param       transaction_type query string false "Filter by type"
// @Param       account_id query string false "Filter by account ID"
// @Param       category_id query string false "Filter by category ID"
// @Success     200 {object} services.TransactionSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetByCategory handles the grouped-by-category aggregation
// @Summary     Transactions by category
// @Description Get totals per (category, transaction type) over the filtered set, largest first
// @Tags        transactions
// @Produce     json
// @Param       start_date query string false "Include transactions dated on or after (YYYY-MM-DD)"
// @Param       end_date   query string false "Include transactions dated on or before (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/by_category [get]
func (h *TransactionHandler) GetByCategory(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.transactionService.GetByCategory(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetMonthlySummary handles the monthly aggregation
// @Summary     Monthly transaction summary
// @Description Get per-month totals by transaction type over the trailing 365 days
// @Tags        transactions
// @Produce     json
// @Success     200 {array} services.MonthlyTotal "Monthly totals"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/monthly_summary [get]
func (h *TransactionHandler) GetMonthlySummary(c *gin.Context) {
	rows, err := h.transactionService.GetMonthlySummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
