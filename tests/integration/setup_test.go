package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:flowdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.BudgetData{},
		&models.BudgetSummary{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	budgetDataService := services.NewBudgetDataService(db)
	budgetSummaryService := services.NewBudgetSummaryService(db)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	budgetDataHandler := handlers.NewBudgetDataHandler(budgetDataService)
	budgetSummaryHandler := handlers.NewBudgetSummaryHandler(budgetSummaryService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/summary", accountHandler.GetAccountSummary)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.GET("/by_category", transactionHandler.GetByCategory)
	transactions.GET("/monthly_summary", transactionHandler.GetMonthlySummary)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/current", budgetHandler.GetCurrentBudgets)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	budgetData := v1.Group("/budget-data")
	budgetData.POST("", budgetDataHandler.CreateBudgetData)
	budgetData.GET("", budgetDataHandler.GetBudgetData)
	budgetData.GET("/summary_by_year", budgetDataHandler.GetSummaryByYear)
	budgetData.GET("/summary_by_category", budgetDataHandler.GetSummaryByCategory)
	budgetData.GET("/summary_by_department", budgetDataHandler.GetSummaryByDepartment)
	budgetData.GET("/:id", budgetDataHandler.GetBudgetDataByID)
	budgetData.PUT("/:id", budgetDataHandler.UpdateBudgetData)
	budgetData.DELETE("/:id", budgetDataHandler.DeleteBudgetData)

	budgetSummaries := v1.Group("/budget-summary")
	budgetSummaries.POST("", budgetSummaryHandler.CreateBudgetSummary)
	budgetSummaries.GET("", budgetSummaryHandler.GetBudgetSummaries)
	budgetSummaries.GET("/latest_by_year", budgetSummaryHandler.GetLatestByYear)
	budgetSummaries.GET("/:id", budgetSummaryHandler.GetBudgetSummaryByID)
	budgetSummaries.PUT("/:id", budgetSummaryHandler.UpdateBudgetSummary)
	budgetSummaries.DELETE("/:id", budgetSummaryHandler.DeleteBudgetSummary)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertAmount compares a decimal string from a JSON response against an
// expected value, ignoring formatting differences like trailing zeros.
func assertAmount(t *testing.T, expected string, got interface{}, what string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("%s: expected decimal string, got %T (%v)", what, got, got)
	}
	want := decimal.RequireFromString(expected)
	have, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("%s: invalid decimal %q: %v", what, s, err)
	}
	if !want.Equal(have) {
		t.Errorf("%s: expected %s, got %s", what, want, have)
	}
}

// createCategory creates a category via the API and returns its ID.
func (app *testApp) createCategory(t *testing.T, name, categoryType string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"category_type":%q}`, name, categoryType)
	rec := app.request("POST", "/api/v1/categories", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	category := result["category"].(map[string]interface{})
	return category["id"].(string)
}

// createAccount creates an account via the API and returns its ID.
func (app *testApp) createAccount(t *testing.T, name, initialBalance string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"initial_balance":%q}`, name, initialBalance)
	rec := app.request("POST", "/api/v1/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["id"].(string)
}

// accountBalance fetches an account via the API and returns its balance.
func (app *testApp) accountBalance(t *testing.T, accountID string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts/"+accountID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	return account["balance"].(string)
}
