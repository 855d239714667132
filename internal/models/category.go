package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a classification label for transactions and budgets.
type Category struct {
	Base
	Name        string       `gorm:"not null;uniqueIndex" json:"name"`
	Type        CategoryType `gorm:"not null" json:"category_type"`
	Description string       `json:"description"`
	Color       string       `gorm:"default:'#0066cc'" json:"color"`
	Icon        string       `json:"icon"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
