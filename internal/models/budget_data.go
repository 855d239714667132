package models

import (
	"github.com/shopspring/decimal"
)

// Fiscal years outside this window are rejected as data-entry errors.
const (
	MinFiscalYear = 1900
	MaxFiscalYear = 2100
)

// BudgetData is a bulk-imported fiscal budget record: planned spend for a
// budget item by category, department, and fiscal year. It is independent
// of the Account/Transaction ledger.
type BudgetData struct {
	Base
	SheetSource       string          `gorm:"not null;index" json:"sheet_source"`
	FiscalYear        int             `gorm:"not null;index" json:"fiscal_year"`
	ProcessedDate     Date            `gorm:"index" json:"processed_date"`
	BudgetCategory    string          `gorm:"not null;index" json:"budget_category"`
	BudgetItem        string          `gorm:"not null" json:"budget_item"`
	BudgetAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"budget_amount"`
	BudgetDescription string          `json:"budget_description"`
	Department        string          `gorm:"index" json:"department"`
	AccountCode       string          `json:"account_code"`
}

// TableName overrides the GORM default ("budget_data" does not pluralize).
func (BudgetData) TableName() string {
	return "budget_data"
}
