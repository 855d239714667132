package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates a checking account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, decimal.Zero)
}

// CreateTestAccountWithBalance creates a checking account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeChecking,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Type:     categoryType,
		Color:    "#0066cc",
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// dated today. It writes the row directly, without touching the account
// balance; use the transaction service when the balance effect matters.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, accountID, txType, amount, models.Today())
}

// CreateTestTransactionOn creates a transaction dated on the given day.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, accountID string, txType models.TransactionType, amount decimal.Decimal, date models.Date) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:   accountID,
		Type:        txType,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active budget for the given category covering
// the current month.
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID string, amount decimal.Decimal) *models.Budget {
	t.Helper()

	today := models.Today()
	start := models.NewDate(today.Year(), today.Month(), 1)
	end := start.AddDays(27)

	budget := &models.Budget{
		CategoryID: categoryID,
		Amount:     amount,
		StartDate:  start,
		EndDate:    end,
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestBudgetData creates a fiscal budget record for the given year.
func CreateTestBudgetData(t *testing.T, db *gorm.DB, fiscalYear int, category string, amount decimal.Decimal) *models.BudgetData {
	t.Helper()

	n := nextID()
	record := &models.BudgetData{
		SheetSource:    fmt.Sprintf("sheet-%d.xlsx", n),
		FiscalYear:     fiscalYear,
		ProcessedDate:  models.Today(),
		BudgetCategory: category,
		BudgetItem:     fmt.Sprintf("Test Item %d", n),
		BudgetAmount:   amount,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test budget data: %v", err)
	}
	return record
}

// CreateTestBudgetSummary creates a budget summary for the given year with
// the given processing time.
func CreateTestBudgetSummary(t *testing.T, db *gorm.DB, fiscalYear int, processedAt time.Time) *models.BudgetSummary {
	t.Helper()

	summary := &models.BudgetSummary{
		SheetName:         fmt.Sprintf("Test Sheet %d", nextID()),
		FiscalYear:        fiscalYear,
		TotalRecords:      10,
		TotalBudgetAmount: decimal.NewFromInt(1000),
		MaxBudgetItem:     decimal.NewFromInt(500),
		MinBudgetItem:     decimal.NewFromInt(10),
		AverageBudgetItem: decimal.NewFromInt(100),
		ProcessingDate:    processedAt,
	}
	if err := db.Create(summary).Error; err != nil {
		t.Fatalf("failed to create test budget summary: %v", err)
	}
	return summary
}
