package models

import (
	"github.com/shopspring/decimal"
)

// Budget represents a spending cap for one category over a date window.
// Spent, remaining, and progress are computed on read and never persisted.
type Budget struct {
	Base
	CategoryID string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	StartDate  Date            `gorm:"not null" json:"start_date"`
	EndDate    Date            `gorm:"not null" json:"end_date"`
	Notes      string          `json:"notes"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// IsCurrent reports whether the budget is active and its window contains today.
func (b *Budget) IsCurrent(today Date) bool {
	return b.IsActive && !today.Before(b.StartDate.Time) && !today.After(b.EndDate.Time)
}
