package models

import (
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a single dated money movement affecting one account.
// Amount is always positive; direction is carried by Type.
type Transaction struct {
	Base
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null;index" json:"transaction_type"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date        Date            `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	IsRecurring bool            `gorm:"default:false" json:"is_recurring"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SignedEffect returns the transaction's contribution to its account's
// balance: +amount for income, -amount for expense. Transfers carry no
// balance effect in this design.
func (t *Transaction) SignedEffect() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}
