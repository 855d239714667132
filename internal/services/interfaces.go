package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AccountFilter holds optional filter parameters for listing accounts.
type AccountFilter struct {
	Type     *models.AccountType
	IsActive *bool
	Currency *string
	Search   string
	Ordering string
}

// AccountUpdateFields holds the optional fields for a partial account update.
// Balance is deliberately absent: it is derived from transactions.
type AccountUpdateFields struct {
	Name        *string
	Type        *models.AccountType
	Currency    *string
	Description *string
	IsActive    *bool
}

// AccountSummary aggregates balances and counts across all accounts.
type AccountSummary struct {
	TotalBalance   decimal.Decimal `json:"total_balance"`
	ActiveAccounts int64           `json:"active_accounts"`
	TotalAccounts  int64           `json:"total_accounts"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(name string, accountType models.AccountType, currency, description string, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccounts(page pagination.PageRequest, filter AccountFilter) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(accountID string) error
	GetAccountSummary() (*AccountSummary, error)
}

// CategoryFilter holds optional filter parameters for listing categories.
type CategoryFilter struct {
	Type     *models.CategoryType
	IsActive *bool
	Search   string
}

// CategoryUpdateFields holds the optional fields for a partial category update.
type CategoryUpdateFields struct {
	Name        *string
	Type        *models.CategoryType
	Description *string
	Color       *string
	Icon        *string
	IsActive    *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, description, color, icon string) (*models.Category, error)
	GetCategories(page pagination.PageRequest, filter CategoryFilter) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate    *models.Date
	ToDate      *models.Date
	Type        *models.TransactionType
	AccountID   *string
	CategoryID  *string
	IsRecurring *bool
	Search      string
	Ordering    string
}

// TransactionInput carries the writable fields of a transaction.
type TransactionInput struct {
	AccountID   string
	CategoryID  *string
	Type        models.TransactionType
	Amount      decimal.Decimal
	Date        models.Date
	Description string
	Reference   string
	Notes       string
	IsRecurring bool
}

// TransactionUpdateFields holds the optional fields for a partial
// transaction update. CategoryID is a double pointer: nil means leave
// unchanged, a pointer to nil clears the category.
type TransactionUpdateFields struct {
	AccountID   *string
	CategoryID  **string
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Date        *models.Date
	Description *string
	Reference   *string
	Notes       *string
	IsRecurring *bool
}

// TransactionSummary aggregates a filtered transaction set.
type TransactionSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// CategoryTotal is one row of the grouped-by-category aggregation.
type CategoryTotal struct {
	CategoryID   *string                `json:"category_id"`
	CategoryName *string                `json:"category_name"`
	Type         models.TransactionType `json:"transaction_type"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
	Count        int64                  `json:"count"`
}

// MonthlyTotal is one row of the monthly aggregation: totals for one
// (calendar month, transaction type) pair.
type MonthlyTotal struct {
	Month string                 `json:"month"`
	Type  models.TransactionType `json:"transaction_type"`
	Total decimal.Decimal        `json:"total"`
	Count int64                  `json:"count"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(input TransactionInput) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	UpdateTransaction(transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
	GetSummary(filter TransactionFilter) (*TransactionSummary, error)
	GetByCategory(filter TransactionFilter) ([]CategoryTotal, error)
	GetMonthlySummary() ([]MonthlyTotal, error)
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	CategoryID *string
	IsActive   *bool
	ActiveOnly bool
}

// BudgetInput carries the writable fields of a budget.
type BudgetInput struct {
	CategoryID string
	Amount     decimal.Decimal
	StartDate  models.Date
	EndDate    models.Date
	Notes      string
	IsActive   *bool
}

// BudgetUpdateFields holds the optional fields for a partial budget update.
type BudgetUpdateFields struct {
	CategoryID *string
	Amount     *decimal.Decimal
	StartDate  *models.Date
	EndDate    *models.Date
	Notes      *string
	IsActive   *bool
}

// BudgetReport is a budget together with its computed spending figures.
type BudgetReport struct {
	Budget             *models.Budget  `json:"budget"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(input BudgetInput) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	UpdateBudget(budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(budgetID string) error
	EvaluateBudget(budget *models.Budget) (*BudgetReport, error)
	GetCurrentBudgets() ([]models.Budget, error)
}

// BudgetDataFilter holds optional filter parameters for listing fiscal
// budget records.
type BudgetDataFilter struct {
	FiscalYear     *int
	FiscalYearMin  *int
	FiscalYearMax  *int
	ProcessedFrom  *models.Date
	ProcessedTo    *models.Date
	BudgetCategory *string
	Department     *string
	SheetSource    *string
	Ordering       string
}

// BudgetDataInput carries the writable fields of a fiscal budget record.
type BudgetDataInput struct {
	SheetSource       string
	FiscalYear        int
	ProcessedDate     models.Date
	BudgetCategory    string
	BudgetItem        string
	BudgetAmount      decimal.Decimal
	BudgetDescription string
	Department        string
	AccountCode       string
}

// BudgetDataUpdateFields holds the optional fields for a partial update
// of a fiscal budget record.
type BudgetDataUpdateFields struct {
	SheetSource       *string
	FiscalYear        *int
	ProcessedDate     *models.Date
	BudgetCategory    *string
	BudgetItem        *string
	BudgetAmount      *decimal.Decimal
	BudgetDescription *string
	Department        *string
	AccountCode       *string
}

// YearSummary aggregates fiscal budget records for one fiscal year.
type YearSummary struct {
	FiscalYear      int             `json:"fiscal_year"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RecordCount     int64           `json:"record_count"`
	CategoryCount   int64           `json:"category_count"`
	DepartmentCount int64           `json:"department_count"`
}

// CategoryYearSummary aggregates fiscal budget records for one
// (budget category, fiscal year) pair.
type CategoryYearSummary struct {
	BudgetCategory string          `json:"budget_category"`
	FiscalYear     int             `json:"fiscal_year"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RecordCount    int64           `json:"record_count"`
}

// DepartmentYearSummary aggregates fiscal budget records for one
// (department, fiscal year) pair. Records with a blank department are
// excluded from this view.
type DepartmentYearSummary struct {
	Department  string          `json:"department"`
	FiscalYear  int             `json:"fiscal_year"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RecordCount int64           `json:"record_count"`
}

// BudgetDataServicer defines the contract for the fiscal budget dataset.
type BudgetDataServicer interface {
	CreateBudgetData(input BudgetDataInput) (*models.BudgetData, error)
	GetBudgetData(page pagination.PageRequest, filter BudgetDataFilter) (*pagination.PageResponse[models.BudgetData], error)
	GetBudgetDataByID(id string) (*models.BudgetData, error)
	UpdateBudgetData(id string, fields BudgetDataUpdateFields) (*models.BudgetData, error)
	DeleteBudgetData(id string) error
	SummaryByYear() ([]YearSummary, error)
	SummaryByCategory() ([]CategoryYearSummary, error)
	SummaryByDepartment() ([]DepartmentYearSummary, error)
}

// BudgetSummaryInput carries the writable fields of a budget summary.
type BudgetSummaryInput struct {
	SheetName         string
	FiscalYear        int
	TotalRecords      int
	TotalBudgetAmount decimal.Decimal
	MaxBudgetItem     decimal.Decimal
	MinBudgetItem     decimal.Decimal
	AverageBudgetItem decimal.Decimal
	ProcessingDate    time.Time
}

// BudgetSummaryUpdateFields holds the optional fields for a partial
// budget summary update.
type BudgetSummaryUpdateFields struct {
	SheetName         *string
	FiscalYear        *int
	TotalRecords      *int
	TotalBudgetAmount *decimal.Decimal
	MaxBudgetItem     *decimal.Decimal
	MinBudgetItem     *decimal.Decimal
	AverageBudgetItem *decimal.Decimal
	ProcessingDate    *time.Time
}

// BudgetSummaryFilter holds optional filter parameters for listing
// budget summaries.
type BudgetSummaryFilter struct {
	FiscalYear *int
	SheetName  *string
}

// BudgetSummaryServicer defines the contract for precomputed sheet statistics.
type BudgetSummaryServicer interface {
	CreateBudgetSummary(input BudgetSummaryInput) (*models.BudgetSummary, error)
	GetBudgetSummaries(page pagination.PageRequest, filter BudgetSummaryFilter) (*pagination.PageResponse[models.BudgetSummary], error)
	GetBudgetSummaryByID(id string) (*models.BudgetSummary, error)
	UpdateBudgetSummary(id string, fields BudgetSummaryUpdateFields) (*models.BudgetSummary, error)
	DeleteBudgetSummary(id string) error
	LatestByYear() ([]models.BudgetSummary, error)
}
