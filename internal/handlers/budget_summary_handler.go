package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetSummaryHandler handles precomputed sheet statistic requests.
type BudgetSummaryHandler struct {
	budgetSummaryService services.BudgetSummaryServicer
}

// NewBudgetSummaryHandler creates a new BudgetSummaryHandler.
func NewBudgetSummaryHandler(budgetSummaryService services.BudgetSummaryServicer) *BudgetSummaryHandler {
	return &BudgetSummaryHandler{budgetSummaryService: budgetSummaryService}
}

// CreateBudgetSummaryRequest represents the request payload for creating
// a budget summary.
type CreateBudgetSummaryRequest struct {
	SheetName         string          `json:"sheet_name" binding:"required,max=255"`
	FiscalYear        int             `json:"fiscal_year" binding:"required,min=1900,max=2100"`
	TotalRecords      int             `json:"total_records" binding:"min=0"`
	TotalBudgetAmount decimal.Decimal `json:"total_budget_amount"`
	MaxBudgetItem     decimal.Decimal `json:"max_budget_item"`
	MinBudgetItem     decimal.Decimal `json:"min_budget_item"`
	AverageBudgetItem decimal.Decimal `json:"average_budget_item"`
	ProcessingDate    time.Time       `json:"processing_date"`
}

// CreateBudgetSummary handles the creation of a budget summary
// @Summary     Create budget summary
// @Description Create precomputed statistics for a processed budget sheet
// @Tags        budget-summary
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetSummaryRequest true "Summary details"
// @Success     201 {object} models.BudgetSummary "Summary created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary [post]
func (h *BudgetSummaryHandler) CreateBudgetSummary(c *gin.Context) {
	var req CreateBudgetSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.budgetSummaryService.CreateBudgetSummary(services.BudgetSummaryInput{
		SheetName:         req.SheetName,
		FiscalYear:        req.FiscalYear,
		TotalRecords:      req.TotalRecords,
		TotalBudgetAmount: req.TotalBudgetAmount,
		MaxBudgetItem:     req.MaxBudgetItem,
		MinBudgetItem:     req.MinBudgetItem,
		AverageBudgetItem: req.AverageBudgetItem,
		ProcessingDate:    req.ProcessingDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget_summary": summary})
}

// GetBudgetSummaries handles the retrieval of budget summaries
// @Summary     List budget summaries
// @Description Get a paginated list of budget summaries with optional filters
// @Tags        budget-summary
// @Produce     json
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       fiscal_year query int    false "Filter by fiscal year"
// @Param       sheet_name  query string false "Filter by sheet name"
// @Success     200 {object} pagination.PageResponse[models.BudgetSummary] "Paginated summaries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary [get]
func (h *BudgetSummaryHandler) GetBudgetSummaries(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.BudgetSummaryFilter{
		SheetName: stringQuery(c, "sheet_name"),
	}
	fiscalYear, err := parseYearQuery(c, "fiscal_year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.FiscalYear = fiscalYear

	result, err := h.budgetSummaryService.GetBudgetSummaries(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetSummaryByID handles the retrieval of a single budget summary
// @Summary     Get budget summary
// @Description Get a budget summary by ID
// @Tags        budget-summary
// @Produce     json
// @Param       id path string true "Summary ID"
// @Success     200 {object} models.BudgetSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid summary ID"
// @Failure     404 {object} ErrorResponse "Summary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary/{id} [get]
func (h *BudgetSummaryHandler) GetBudgetSummaryByID(c *gin.Context) {
	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetSummaryService.GetBudgetSummaryByID(summaryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_summary": summary})
}

// UpdateBudgetSummaryRequest represents the request payload for updating
// a budget summary.
type UpdateBudgetSummaryRequest struct {
	SheetName         *string          `json:"sheet_name" binding:"omitempty,max=255"`
	FiscalYear        *int             `json:"fiscal_year" binding:"omitempty,min=1900,max=2100"`
	TotalRecords      *int             `json:"total_records" binding:"omitempty,min=0"`
	TotalBudgetAmount *decimal.Decimal `json:"total_budget_amount"`
	MaxBudgetItem     *decimal.Decimal `json:"max_budget_item"`
	MinBudgetItem     *decimal.Decimal `json:"min_budget_item"`
	AverageBudgetItem *decimal.Decimal `json:"average_budget_item"`
	ProcessingDate    *time.Time       `json:"processing_date"`
}

// UpdateBudgetSummary handles a partial budget summary update
// @Summary     Update budget summary
// @Description Update fields of a budget summary
// @Tags        budget-summary
// @Accept      json
// @Produce     json
// @Param       id      path string                     true "Summary ID"
// @Param       request body UpdateBudgetSummaryRequest true "Fields to update"
// @Success     200 {object} models.BudgetSummary "Updated summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Summary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary/{id} [put]
func (h *BudgetSummaryHandler) UpdateBudgetSummary(c *gin.Context) {
	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.budgetSummaryService.UpdateBudgetSummary(summaryID, services.BudgetSummaryUpdateFields{
		SheetName:         req.SheetName,
		FiscalYear:        req.FiscalYear,
		TotalRecords:      req.TotalRecords,
		TotalBudgetAmount: req.TotalBudgetAmount,
		MaxBudgetItem:     req.MaxBudgetItem,
		MinBudgetItem:     req.MinBudgetItem,
		AverageBudgetItem: req.AverageBudgetItem,
		ProcessingDate:    req.ProcessingDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_summary": summary})
}

// DeleteBudgetSummary handles the deletion of a budget summary
// @Summary     Delete budget summary
// @Description Delete a budget summary by ID
// @Tags        budget-summary
// @Produce     json
// @Param       id path string true "Summary ID"
// @Success     200 {object} MessageResponse "Summary deleted"
// @Failure     400 {object} ErrorResponse "Invalid summary ID"
// @Failure     404 {object} ErrorResponse "Summary not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary/{id} [delete]
func (h *BudgetSummaryHandler) DeleteBudgetSummary(c *gin.Context) {
	summaryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetSummaryService.DeleteBudgetSummary(summaryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget summary deleted successfully"})
}

// GetLatestByYear handles the latest-per-year view
// @Summary     Latest summaries by year
// @Description Get the most recently processed summary for each fiscal year, ordered by year
// @Tags        budget-summary
// @Produce     json
// @Success     200 {array} models.BudgetSummary "Latest summaries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-summary/latest_by_year [get]
func (h *BudgetSummaryHandler) GetLatestByYear(c *gin.Context) {
	rows, err := h.budgetSummaryService.LatestByYear()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
