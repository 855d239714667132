package services

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic,
// including the compensating balance updates on the owning account.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

var transactionOrderColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

func validTransactionType(t models.TransactionType) bool {
	switch t {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
		return true
	}
	return false
}

// CreateTransaction creates a transaction and applies its signed effect
// to the owning account's balance. Row insert and balance update share
// one database transaction: neither is observable without the other.
func (s *transactionService) CreateTransaction(input TransactionInput) (*models.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if !validTransactionType(input.Type) {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.Date.IsZero() {
		input.Date = models.Today()
	}

	if input.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	transaction := &models.Transaction{
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		Description: input.Description,
		Reference:   input.Reference,
		Notes:       input.Notes,
		IsRecurring: input.IsRecurring,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := applyBalanceEffect(tx, transaction.AccountID, transaction, false); err != nil {
			return err
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Default ordering is newest first, ties broken by creation time.
	order := orderClause(filter.Ordering, transactionOrderColumns, "date DESC, created_at DESC")

	var transactions []models.Transaction
	if err := base.Preload("Account").Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order(order).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Columns are qualified so the same filters compose with joined
// aggregation queries (categories also has type and description columns).
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transactions.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transactions.date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("transactions.type = ?", *f.Type)
	}
	if f.AccountID != nil {
		q = q.Where("transactions.account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("transactions.category_id = ?", *f.CategoryID)
	}
	if f.IsRecurring != nil {
		q = q.Where("transactions.is_recurring = ?", *f.IsRecurring)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("transactions.description LIKE ? OR transactions.notes LIKE ? OR transactions.reference LIKE ?", like, like, like)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").Preload("Category").
		Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates a transaction, keeping account balances
// consistent: the prior stored effect is reversed on the prior account,
// then the new effect is applied to the new account (which may differ
// when the account reference changes). Reversal, field changes, and
// re-application all commit atomically or not at all.
func (s *transactionService) UpdateTransaction(transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	if fields.Amount != nil && !fields.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Type != nil && !validTransactionType(*fields.Type) {
		return nil, apperrors.ErrInvalidTransactionType
	}

	var updated *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Reverse the previously stored effect on the previous account
		// before any field changes take hold.
		prior := transaction
		if err := applyBalanceEffect(tx, prior.AccountID, &prior, true); err != nil {
			return err
		}

		if fields.AccountID != nil && *fields.AccountID != transaction.AccountID {
			var count int64
			if err := tx.Model(&models.Account{}).Where("id = ?", *fields.AccountID).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count == 0 {
				return apperrors.ErrAccountNotFound
			}
			transaction.AccountID = *fields.AccountID
		}
		if fields.CategoryID != nil {
			if *fields.CategoryID != nil {
				var count int64
				if err := tx.Model(&models.Category{}).Where("id = ?", **fields.CategoryID).Count(&count).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				if count == 0 {
					return apperrors.ErrCategoryNotFound
				}
			}
			transaction.CategoryID = *fields.CategoryID
		}
		if fields.Type != nil {
			transaction.Type = *fields.Type
		}
		if fields.Amount != nil {
			transaction.Amount = *fields.Amount
		}
		if fields.Date != nil {
			transaction.Date = *fields.Date
		}
		if fields.Description != nil {
			transaction.Description = *fields.Description
		}
		if fields.Reference != nil {
			transaction.Reference = *fields.Reference
		}
		if fields.Notes != nil {
			transaction.Notes = *fields.Notes
		}
		if fields.IsRecurring != nil {
			transaction.IsRecurring = *fields.IsRecurring
		}

		if err := applyBalanceEffect(tx, transaction.AccountID, &transaction, false); err != nil {
			return err
		}

		// Save with Select so cleared category references persist as NULL.
		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", transaction.ID).
			Select("account_id", "category_id", "type", "amount", "date", "description", "reference", "notes", "is_recurring").
			Updates(map[string]interface{}{
				"account_id":   transaction.AccountID,
				"category_id":  transaction.CategoryID,
				"type":         transaction.Type,
				"amount":       transaction.Amount,
				"date":         transaction.Date,
				"description":  transaction.Description,
				"reference":    transaction.Reference,
				"notes":        transaction.Notes,
				"is_recurring": transaction.IsRecurring,
			}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updated = &transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(updated.ID)
}

// DeleteTransaction deletes a transaction, reversing its effect on the
// owning account's balance in the same database transaction.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := applyBalanceEffect(tx, transaction.AccountID, &transaction, true); err != nil {
			return err
		}

		if err := tx.Delete(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetSummary aggregates the filtered transaction set: income and expense
// totals, their difference, and the row count (all types included).
func (s *transactionService) GetSummary(filter TransactionFilter) (*TransactionSummary, error) {
	summary := &TransactionSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	income, err := s.sumAmount(filter, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumAmount(filter, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	if err := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter).
		Count(&summary.TransactionCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.TotalIncome = income
	summary.TotalExpenses = expenses
	summary.NetBalance = income.Sub(expenses)
	return summary, nil
}

func (s *transactionService) sumAmount(filter TransactionFilter, txType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter).
		Where("type = ?", txType).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// GetByCategory groups the filtered set by (category, transaction type)
// and returns totals ordered largest first. Uncategorized transactions
// group under a null category.
func (s *transactionService) GetByCategory(filter TransactionFilter) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter).
		Select("transactions.category_id AS category_id, categories.name AS category_name, transactions.type AS type, SUM(transactions.amount) AS total_amount, COUNT(*) AS count").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id AND categories.deleted_at IS NULL").
		Group("transactions.category_id, categories.name, transactions.type").
		Order("total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []CategoryTotal{}
	}
	return rows, nil
}

// GetMonthlySummary totals the trailing 365 days of transactions per
// (calendar month, transaction type), in chronological order. Grouping
// happens in Go so the query stays portable across Postgres and SQLite.
func (s *transactionService) GetMonthlySummary() ([]MonthlyTotal, error) {
	endDate := models.Today()
	startDate := endDate.AddDays(-365)

	var transactions []models.Transaction
	if err := s.db.Model(&models.Transaction{}).
		Where("date >= ? AND date <= ?", startDate, endDate).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type groupKey struct {
		month string
		typ   models.TransactionType
	}
	groups := make(map[groupKey]*MonthlyTotal)
	for i := range transactions {
		t := &transactions[i]
		key := groupKey{month: t.Date.Format("2006-01"), typ: t.Type}
		row, ok := groups[key]
		if !ok {
			row = &MonthlyTotal{Month: key.month, Type: key.typ, Total: decimal.Zero}
			groups[key] = row
		}
		row.Total = row.Total.Add(t.Amount)
		row.Count++
	}

	result := make([]MonthlyTotal, 0, len(groups))
	for _, row := range groups {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Month != result[j].Month {
			return result[i].Month < result[j].Month
		}
		return result[i].Type < result[j].Type
	})
	return result, nil
}
