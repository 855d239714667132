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

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	CategoryID string          `json:"category_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	StartDate  models.Date     `json:"start_date" binding:"required"`
	EndDate    models.Date     `json:"end_date" binding:"required"`
	Notes      string          `json:"notes" binding:"max=1000"`
	IsActive   *bool           `json:"is_active"`
}

// CreateBudget handles the creation of a new budget
// @Summary     Create a budget
// @Description Create a spending budget for a category over a date window
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} services.BudgetReport "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(services.BudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.budgetService.EvaluateBudget(budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": report})
}

// GetBudgets handles the retrieval of budgets
// @Summary     List budgets
// @Description Get a paginated list of budgets with computed spending figures
// @Tags        budgets
// @Produce     json
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       category_id query string false "Filter by category ID"
// @Param       is_active   query bool   false "Filter by active flag"
// @Success     200 {object} pagination.PageResponse[services.BudgetReport] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.BudgetFilter
	if v := c.Query("category_id"); v != "" {
		if !uuid.IsValid(v) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category_id"))
			return
		}
		filter.CategoryID = &v
	}
	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.IsActive = isActive

	result, err := h.budgetService.GetBudgets(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reports, err := h.evaluateAll(result.Data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.PageResponse[services.BudgetReport]{
		Data:       reports,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

func (h *BudgetHandler) evaluateAll(budgets []models.Budget) ([]services.BudgetReport, error) {
	reports := make([]services.BudgetReport, 0, len(budgets))
	for i := range budgets {
		report, err := h.budgetService.EvaluateBudget(&budgets[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// GetBudgetByID handles the retrieval of a single budget
// @Summary     Get budget
// @Description Get a budget by ID with computed spending figures
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetReport "Budget"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.budgetService.EvaluateBudget(budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": report})
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	CategoryID *string          `json:"category_id" binding:"omitempty,uuid"`
	Amount     *decimal.Decimal `json:"amount"`
	StartDate  *models.Date     `json:"start_date"`
	EndDate    *models.Date     `json:"end_date"`
	Notes      *string          `json:"notes" binding:"omitempty,max=1000"`
	IsActive   *bool            `json:"is_active"`
}

// UpdateBudget handles a partial budget update
// @Summary     Update budget
// @Description Update a budget's fields; the merged date window is revalidated
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to update"
// @Success     200 {object} services.BudgetReport "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(budgetID, services.BudgetUpdateFields{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.budgetService.EvaluateBudget(budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": report})
}

// DeleteBudget handles the deletion of a budget
// @Summary     Delete budget
// @Description Delete a budget; transactions are not affected
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetCurrentBudgets handles the retrieval of budgets covering today
// @Summary     Current budgets
// @Description Get active budgets whose date window includes today, with spending figures
// @Tags        budgets
// @Produce     json
// @Success     200 {array} services.BudgetReport "Current budgets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/current [get]
func (h *BudgetHandler) GetCurrentBudgets(c *gin.Context) {
	budgets, err := h.budgetService.GetCurrentBudgets()
	if err != nil {
		respondWithError(c, err)
		return
	}

	reports, err := h.evaluateAll(budgets)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}
