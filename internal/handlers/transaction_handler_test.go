package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn  func(input services.TransactionInput) (*models.Transaction, error)
	getTransactionsFn    func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn func(transactionID string) (*models.Transaction, error)
	updateTransactionFn  func(transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteTransactionFn  func(transactionID string) error
	getSummaryFn         func(filter services.TransactionFilter) (*services.TransactionSummary, error)
	getByCategoryFn      func(filter services.TransactionFilter) ([]services.CategoryTotal, error)
	getMonthlySummaryFn  func() ([]services.MonthlyTotal, error)
}

func (m *mockTransactionService) CreateTransaction(input services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(transactionID, fields)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetSummary(filter services.TransactionFilter) (*services.TransactionSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(filter)
	}
	return &services.TransactionSummary{}, nil
}

func (m *mockTransactionService) GetByCategory(filter services.TransactionFilter) ([]services.CategoryTotal, error) {
	if m.getByCategoryFn != nil {
		return m.getByCategoryFn(filter)
	}
	return []services.CategoryTotal{}, nil
}

func (m *mockTransactionService) GetMonthlySummary() ([]services.MonthlyTotal, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn()
	}
	return []services.MonthlyTotal{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/summary", handler.GetSummary)
	r.GET("/transactions/by_category", handler.GetByCategory)
	r.GET("/transactions/monthly_summary", handler.GetMonthlySummary)
	r.GET("/transactions/:id", handler.GetTransactionByID)
	r.PUT("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotInput services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(input services.TransactionInput) (*models.Transaction, error) {
				gotInput = input
				return &models.Transaction{
					Base:      models.Base{ID: testID},
					AccountID: input.AccountID,
					Type:      input.Type,
					Amount:    input.Amount,
					Date:      input.Date,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testID+`","transaction_type":"expense","amount":"75.50","date":"2026-08-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotInput.Amount.Equal(decimal.RequireFromString("75.50")) {
			t.Errorf("expected amount 75.50, got %s", gotInput.Amount)
		}
		if gotInput.Date.String() != "2026-08-15" {
			t.Errorf("expected date 2026-08-15, got %s", gotInput.Date)
		}
	})

	t.Run("returns 400 on missing account", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"transaction_type":"expense","amount":"10.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testID+`","transaction_type":"withdrawal","amount":"10.00"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testID+`","transaction_type":"expense","amount":"10.00","date":"15/08/2026"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown account", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testID+`","transaction_type":"expense","amount":"10.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes date range and type filters", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?start_date=2026-08-01&end_date=2026-08-31&transaction_type=expense&ordering=-amount", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.FromDate == nil || gotFilter.FromDate.String() != "2026-08-01" {
			t.Error("expected start_date to be passed")
		}
		if gotFilter.ToDate == nil || gotFilter.ToDate.String() != "2026-08-31" {
			t.Error("expected end_date to be passed")
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Error("expected transaction_type to be passed")
		}
		if gotFilter.Ordering != "-amount" {
			t.Errorf("expected ordering -amount, got %q", gotFilter.Ordering)
		}
	})

	t.Run("returns 400 on malformed date filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?start_date=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad type filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?transaction_type=withdrawal", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("empty category id clears the category", func(t *testing.T) {
		var gotFields services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				gotFields = fields
				return &models.Transaction{Base: models.Base{ID: transactionID}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"category_id":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFields.CategoryID == nil {
			t.Fatal("expected category change to be requested")
		}
		if *gotFields.CategoryID != nil {
			t.Error("expected cleared category")
		}
	})

	t.Run("absent category id is left unchanged", func(t *testing.T) {
		var gotFields services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(transactionID string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				gotFields = fields
				return &models.Transaction{Base: models.Base{ID: transactionID}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"amount":"25.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFields.CategoryID != nil {
			t.Error("expected no category change")
		}
		if gotFields.Amount == nil || !gotFields.Amount.Equal(decimal.RequireFromString("25.00")) {
			t.Error("expected amount to be passed")
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(string, services.TransactionUpdateFields) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"amount":"25.00"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	t.Run("returns totals", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getSummaryFn: func(filter services.TransactionFilter) (*services.TransactionSummary, error) {
				return &services.TransactionSummary{
					TotalIncome:      decimal.RequireFromString("150.00"),
					TotalExpenses:    decimal.RequireFromString("40.00"),
					NetBalance:       decimal.RequireFromString("110.00"),
					TransactionCount: 3,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["net_balance"] != "110" {
			t.Errorf("expected net_balance 110, got %v", result["net_balance"])
		}
	})
}

func TestTransactionHandler_GetByCategory(t *testing.T) {
	t.Run("returns rows", func(t *testing.T) {
		name := "Groceries"
		txSvc := &mockTransactionService{
			getByCategoryFn: func(filter services.TransactionFilter) ([]services.CategoryTotal, error) {
				return []services.CategoryTotal{{
					CategoryName: &name,
					Type:         models.TransactionTypeExpense,
					TotalAmount:  decimal.RequireFromString("50.00"),
					Count:        2,
				}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/by_category", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
