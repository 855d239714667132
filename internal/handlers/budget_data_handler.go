package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetDataHandler handles fiscal budget dataset requests.
type BudgetDataHandler struct {
	budgetDataService services.BudgetDataServicer
}

// NewBudgetDataHandler creates a new BudgetDataHandler.
func NewBudgetDataHandler(budgetDataService services.BudgetDataServicer) *BudgetDataHandler {
	return &BudgetDataHandler{budgetDataService: budgetDataService}
}

// CreateBudgetDataRequest represents the request payload for creating a
// fiscal budget record.
type CreateBudgetDataRequest struct {
	SheetSource       string          `json:"sheet_source" binding:"required,max=255"`
	FiscalYear        int             `json:"fiscal_year" binding:"required,min=1900,max=2100"`
	ProcessedDate     models.Date     `json:"processed_date" binding:"required"`
	BudgetCategory    string          `json:"budget_category" binding:"required,max=255"`
	BudgetItem        string          `json:"budget_item" binding:"required,max=255"`
	BudgetAmount      decimal.Decimal `json:"budget_amount" binding:"required"`
	BudgetDescription string          `json:"budget_description" binding:"max=1000"`
	Department        string          `json:"department" binding:"max=255"`
	AccountCode       string          `json:"account_code" binding:"max=50"`
}

// CreateBudgetData handles the creation of a fiscal budget record
// @Summary     Create fiscal budget record
// @Description Create a record in the imported fiscal budget dataset
// @Tags        budget-data
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetDataRequest true "Record details"
// @Success     201 {object} models.BudgetData "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data [post]
func (h *BudgetDataHandler) CreateBudgetData(c *gin.Context) {
	var req CreateBudgetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.budgetDataService.CreateBudgetData(services.BudgetDataInput{
		SheetSource:       req.SheetSource,
		FiscalYear:        req.FiscalYear,
		ProcessedDate:     req.ProcessedDate,
		BudgetCategory:    req.BudgetCategory,
		BudgetItem:        req.BudgetItem,
		BudgetAmount:      req.BudgetAmount,
		BudgetDescription: req.BudgetDescription,
		Department:        req.Department,
		AccountCode:       req.AccountCode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget_data": record})
}

func parseYearQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < models.MinFiscalYear || year > models.MaxFiscalYear {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidFiscalYear, "invalid "+name)
	}
	return &year, nil
}

// GetBudgetData handles the retrieval of fiscal budget records
// @Summary     List fiscal budget records
// @Description Get a paginated list of fiscal budget records with optional filters
// @Tags        budget-data
// @Produce     json
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Param       fiscal_year     query int    false "Exact fiscal year"
// @Param       fiscal_year_min query int    false "Minimum fiscal year (inclusive)"
// @Param       fiscal_year_max query int    false "Maximum fiscal year (inclusive)"
// @Param       processed_from  query string false "Processed on or after (YYYY-MM-DD)"
// @Param       processed_to    query string false "Processed on or before (YYYY-MM-DD)"
// @Param       budget_category query string false "Filter by budget category"
// @Param       department      query string false "Filter by department"
// @Param       sheet_source    query string false "Filter by source sheet"
// @Param       ordering        query string false "Order by fiscal_year, budget_amount, or processed_date; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.BudgetData] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data [get]
func (h *BudgetDataHandler) GetBudgetData(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.BudgetDataFilter{
		BudgetCategory: stringQuery(c, "budget_category"),
		Department:     stringQuery(c, "department"),
		SheetSource:    stringQuery(c, "sheet_source"),
		Ordering:       c.Query("ordering"),
	}

	var err error
	if filter.FiscalYear, err = parseYearQuery(c, "fiscal_year"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.FiscalYearMin, err = parseYearQuery(c, "fiscal_year_min"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.FiscalYearMax, err = parseYearQuery(c, "fiscal_year_max"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ProcessedFrom, err = parseDateQuery(c, "processed_from"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ProcessedTo, err = parseDateQuery(c, "processed_to"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetDataService.GetBudgetData(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetDataByID handles the retrieval of a single fiscal budget record
// @Summary     Get fiscal budget record
// @Description Get a fiscal budget record by ID
// @Tags        budget-data
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} models.BudgetData "Record"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/{id} [get]
func (h *BudgetDataHandler) GetBudgetDataByID(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.budgetDataService.GetBudgetDataByID(recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_data": record})
}

// UpdateBudgetDataRequest represents the request payload for updating a
// fiscal budget record.
type UpdateBudgetDataRequest struct {
	SheetSource       *string          `json:"sheet_source" binding:"omitempty,max=255"`
	FiscalYear        *int             `json:"fiscal_year" binding:"omitempty,min=1900,max=2100"`
	ProcessedDate     *models.Date     `json:"processed_date"`
	BudgetCategory    *string          `json:"budget_category" binding:"omitempty,max=255"`
	BudgetItem        *string          `json:"budget_item" binding:"omitempty,max=255"`
	BudgetAmount      *decimal.Decimal `json:"budget_amount"`
	BudgetDescription *string          `json:"budget_description" binding:"omitempty,max=1000"`
	Department        *string          `json:"department" binding:"omitempty,max=255"`
	AccountCode       *string          `json:"account_code" binding:"omitempty,max=50"`
}

// UpdateBudgetData handles a partial update of a fiscal budget record
// @Summary     Update fiscal budget record
// @Description Update fields of a fiscal budget record
// @Tags        budget-data
// @Accept      json
// @Produce     json
// @Param       id      path string                  true "Record ID"
// @Param       request body UpdateBudgetDataRequest true "Fields to update"
// @Success     200 {object} models.BudgetData "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/{id} [put]
func (h *BudgetDataHandler) UpdateBudgetData(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.budgetDataService.UpdateBudgetData(recordID, services.BudgetDataUpdateFields{
		SheetSource:       req.SheetSource,
		FiscalYear:        req.FiscalYear,
		ProcessedDate:     req.ProcessedDate,
		BudgetCategory:    req.BudgetCategory,
		BudgetItem:        req.BudgetItem,
		BudgetAmount:      req.BudgetAmount,
		BudgetDescription: req.BudgetDescription,
		Department:        req.Department,
		AccountCode:       req.AccountCode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_data": record})
}

// DeleteBudgetData handles the deletion of a fiscal budget record
// @Summary     Delete fiscal budget record
// @Description Delete a fiscal budget record by ID
// @Tags        budget-data
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} MessageResponse "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid record ID"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/{id} [delete]
func (h *BudgetDataHandler) DeleteBudgetData(c *gin.Context) {
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetDataService.DeleteBudgetData(recordID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget data deleted successfully"})
}

// GetSummaryByYear handles the per-year aggregation
// @Summary     Fiscal budget summary by year
// @Description Get totals, record counts, and distinct category/department counts per fiscal year
// @Tags        budget-data
// @Produce     json
// @Success     200 {array} services.YearSummary "Year summaries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/summary_by_year [get]
func (h *BudgetDataHandler) GetSummaryByYear(c *gin.Context) {
	rows, err := h.budgetDataService.SummaryByYear()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSummaryByCategory handles the per-category aggregation
// @Summary     Fiscal budget summary by category
// @Description Get totals and record counts per (budget category, fiscal year)
// @Tags        budget-data
// @Produce     json
// @Success     200 {array} services.CategoryYearSummary "Category summaries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/summary_by_category [get]
func (h *BudgetDataHandler) GetSummaryByCategory(c *gin.Context) {
	rows, err := h.budgetDataService.SummaryByCategory()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetSummaryByDepartment handles the per-department aggregation
// @Summary     Fiscal budget summary by department
// @Description Get totals and record counts per (department, fiscal year), excluding blank departments
// @Tags        budget-data
// @Produce     json
// @Success     200 {array} services.DepartmentYearSummary "Department summaries"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-data/summary_by_department [get]
func (h *BudgetDataHandler) GetSummaryByDepartment(c *gin.Context) {
	rows, err := h.budgetDataService.SummaryByDepartment()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
