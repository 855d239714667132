package models

import (
	"github.com/shopspring/decimal"
)

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account represents a money-holding account with a cached running balance.
// Balance is derived: it always equals the signed sum of the account's
// transactions and is only ever written by the transaction write path.
type Account struct {
	Base
	Name        string          `gorm:"not null;uniqueIndex" json:"name"`
	Type        AccountType     `gorm:"not null;default:'checking'" json:"account_type"`
	Balance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	Currency    string          `gorm:"not null;default:'USD'" json:"currency"`
	Description string          `json:"description"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
