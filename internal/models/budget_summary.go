package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetSummary holds precomputed statistics for one processed budget
// sheet: record count and amount aggregates for a fiscal year.
type BudgetSummary struct {
	Base
	SheetName         string          `gorm:"not null;index" json:"sheet_name"`
	FiscalYear        int             `gorm:"not null;index" json:"fiscal_year"`
	TotalRecords      int             `gorm:"not null;default:0" json:"total_records"`
	TotalBudgetAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_budget_amount"`
	MaxBudgetItem     decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_budget_item"`
	MinBudgetItem     decimal.Decimal `gorm:"type:decimal(12,2)" json:"min_budget_item"`
	AverageBudgetItem decimal.Decimal `gorm:"type:decimal(12,2)" json:"average_budget_item"`
	ProcessingDate    time.Time       `gorm:"not null;index" json:"processing_date"`
}

// TableName overrides the GORM default.
func (BudgetSummary) TableName() string {
	return "budget_summaries"
}
