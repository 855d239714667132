package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock budget summary service ---

type mockBudgetSummaryService struct {
	createBudgetSummaryFn  func(input services.BudgetSummaryInput) (*models.BudgetSummary, error)
	getBudgetSummariesFn   func(page pagination.PageRequest, filter services.BudgetSummaryFilter) (*pagination.PageResponse[models.BudgetSummary], error)
	getBudgetSummaryByIDFn func(id string) (*models.BudgetSummary, error)
	updateBudgetSummaryFn  func(id string, fields services.BudgetSummaryUpdateFields) (*models.BudgetSummary, error)
	deleteBudgetSummaryFn  func(id string) error
	latestByYearFn         func() ([]models.BudgetSummary, error)
}

func (m *mockBudgetSummaryService) CreateBudgetSummary(input services.BudgetSummaryInput) (*models.BudgetSummary, error) {
	if m.createBudgetSummaryFn != nil {
		return m.createBudgetSummaryFn(input)
	}
	return &models.BudgetSummary{}, nil
}

func (m *mockBudgetSummaryService) GetBudgetSummaries(page pagination.PageRequest, filter services.BudgetSummaryFilter) (*pagination.PageResponse[models.BudgetSummary], error) {
	if m.getBudgetSummariesFn != nil {
		return m.getBudgetSummariesFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.BudgetSummary{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetSummaryService) GetBudgetSummaryByID(id string) (*models.BudgetSummary, error) {
	if m.getBudgetSummaryByIDFn != nil {
		return m.getBudgetSummaryByIDFn(id)
	}
	return &models.BudgetSummary{}, nil
}

func (m *mockBudgetSummaryService) UpdateBudgetSummary(id string, fields services.BudgetSummaryUpdateFields) (*models.BudgetSummary, error) {
	if m.updateBudgetSummaryFn != nil {
		return m.updateBudgetSummaryFn(id, fields)
	}
	return &models.BudgetSummary{}, nil
}

func (m *mockBudgetSummaryService) DeleteBudgetSummary(id string) error {
	if m.deleteBudgetSummaryFn != nil {
		return m.deleteBudgetSummaryFn(id)
	}
	return nil
}

func (m *mockBudgetSummaryService) LatestByYear() ([]models.BudgetSummary, error) {
	if m.latestByYearFn != nil {
		return m.latestByYearFn()
	}
	return []models.BudgetSummary{}, nil
}

var _ services.BudgetSummaryServicer = (*mockBudgetSummaryService)(nil)

func setupBudgetSummaryRouter(handler *BudgetSummaryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/budget-summary", handler.CreateBudgetSummary)
	r.GET("/budget-summary", handler.GetBudgetSummaries)
	r.GET("/budget-summary/latest_by_year", handler.GetLatestByYear)
	r.GET("/budget-summary/:id", handler.GetBudgetSummaryByID)
	r.PUT("/budget-summary/:id", handler.UpdateBudgetSummary)
	r.DELETE("/budget-summary/:id", handler.DeleteBudgetSummary)
	return r
}

func TestBudgetSummaryHandler_CreateBudgetSummary(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		summarySvc := &mockBudgetSummaryService{
			createBudgetSummaryFn: func(input services.BudgetSummaryInput) (*models.BudgetSummary, error) {
				return &models.BudgetSummary{
					Base:       models.Base{ID: testID},
					SheetName:  input.SheetName,
					FiscalYear: input.FiscalYear,
				}, nil
			},
		}
		handler := NewBudgetSummaryHandler(summarySvc)
		r := setupBudgetSummaryRouter(handler)

		rec := doRequest(r, "POST", "/budget-summary",
			`{"sheet_name":"FY2026 Master","fiscal_year":2026,"total_records":120,"total_budget_amount":"45000.00","processing_date":"2026-07-01T12:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing sheet name", func(t *testing.T) {
		handler := NewBudgetSummaryHandler(&mockBudgetSummaryService{})
		r := setupBudgetSummaryRouter(handler)

		rec := doRequest(r, "POST", "/budget-summary", `{"fiscal_year":2026}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetSummaryHandler_GetBudgetSummaries(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.BudgetSummaryFilter
		summarySvc := &mockBudgetSummaryService{
			getBudgetSummariesFn: func(page pagination.PageRequest, filter services.BudgetSummaryFilter) (*pagination.PageResponse[models.BudgetSummary], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.BudgetSummary{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewBudgetSummaryHandler(summarySvc)
		r := setupBudgetSummaryRouter(handler)

		rec := doRequest(r, "GET", "/budget-summary?fiscal_year=2026&sheet_name=Master", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFilter.FiscalYear == nil || *gotFilter.FiscalYear != 2026 {
			t.Error("expected fiscal_year to be passed")
		}
		if gotFilter.SheetName == nil || *gotFilter.SheetName != "Master" {
			t.Error("expected sheet_name to be passed")
		}
	})
}

func TestBudgetSummaryHandler_GetLatestByYear(t *testing.T) {
	t.Run("returns rows", func(t *testing.T) {
		summarySvc := &mockBudgetSummaryService{
			latestByYearFn: func() ([]models.BudgetSummary, error) {
				return []models.BudgetSummary{{
					Base:           models.Base{ID: testID},
					SheetName:      "FY2026 Master",
					FiscalYear:     2026,
					ProcessingDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				}}, nil
			},
		}
		handler := NewBudgetSummaryHandler(summarySvc)
		r := setupBudgetSummaryRouter(handler)

		rec := doRequest(r, "GET", "/budget-summary/latest_by_year", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestBudgetSummaryHandler_UpdateBudgetSummary(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		summarySvc := &mockBudgetSummaryService{
			updateBudgetSummaryFn: func(string, services.BudgetSummaryUpdateFields) (*models.BudgetSummary, error) {
				return nil, apperrors.ErrBudgetSummaryNotFound
			},
		}
		handler := NewBudgetSummaryHandler(summarySvc)
		r := setupBudgetSummaryRouter(handler)

		rec := doRequest(r, "PUT", "/budget-summary/"+testID, `{"total_records":5}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
