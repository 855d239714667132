package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the request payload for creating an account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	Type           models.AccountType `json:"account_type" binding:"omitempty,account_type"`
	Currency       string             `json:"currency" binding:"omitempty,currency_code"`
	Description    string             `json:"description" binding:"max=500"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account, optionally seeding it with an opening balance
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(req.Name, req.Type, req.Currency, req.Description, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts handles the retrieval of accounts
// @Summary     List accounts
// @Description Get a paginated list of accounts with optional filters
// @Tags        accounts
// @Produce     json
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       account_type query string false "Filter by account type"
// @Param       is_active  query bool   false "Filter by active flag"
// @Param       currency   query string false "Filter by currency code"
// @Param       search     query string false "Free-text search over name and description"
// @Param       ordering   query string false "Order by name, balance, or created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.AccountFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Currency: stringQuery(c, "currency"),
	}
	if v := c.Query("account_type"); v != "" {
		accountType := models.AccountType(v)
		filter.Type = &accountType
	}
	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.IsActive = isActive

	result, err := h.accountService.GetAccounts(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountSummary handles the account summary aggregation
// @Summary     Account summary
// @Description Get total balance across all accounts and account counts
// @Tags        accounts
// @Produce     json
// @Success     200 {object} services.AccountSummary "Account summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/summary [get]
func (h *AccountHandler) GetAccountSummary(c *gin.Context) {
	summary, err := h.accountService.GetAccountSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAccountByID handles the retrieval of a single account
// @Summary     Get account
// @Description Get an account by ID
// @Tags        accounts
// @Produce     json
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccountRequest represents the request payload for updating an account.
// Balance is not updatable: it is derived from transactions.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=100"`
	Type        *models.AccountType `json:"account_type" binding:"omitempty,account_type"`
	Currency    *string             `json:"currency" binding:"omitempty,currency_code"`
	Description *string             `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool               `json:"is_active"`
}

// UpdateAccount handles a partial account update
// @Summary     Update account
// @Description Update an account's fields; balance cannot be set directly
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(accountID, services.AccountUpdateFields{
		Name:        req.Name,
		Type:        req.Type,
		Currency:    req.Currency,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles the deletion of an account
// @Summary     Delete account
// @Description Delete an account and all of its transactions
// @Tags        accounts
// @Produce     json
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
