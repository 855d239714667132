package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

var accountOrderColumns = map[string]string{
	"name":       "name",
	"balance":    "balance",
	"created_at": "created_at",
}

// CreateAccount creates a new account. When a non-zero initial balance is
// given, it is recorded as an opening income transaction in the same
// database transaction, so the balance invariant holds from the start.
func (s *accountService) CreateAccount(name string, accountType models.AccountType, currency, description string, initialBalance decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if initialBalance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}
	if currency == "" {
		currency = "USD"
	}
	if accountType == "" {
		accountType = models.AccountTypeChecking
	}

	var count int64
	if err := s.db.Model(&models.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "an account with this name already exists")
	}

	account := &models.Account{
		Name:        name,
		Type:        accountType,
		Balance:     initialBalance,
		Currency:    currency,
		Description: description,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialBalance.IsPositive() {
			opening := &models.Transaction{
				AccountID:   account.ID,
				Type:        models.TransactionTypeIncome,
				Amount:      initialBalance,
				Description: "Initial balance",
				Date:        models.Today(),
			}
			if err := tx.Create(opening).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccounts retrieves a paginated, filtered list of accounts.
func (s *accountService) GetAccounts(page pagination.PageRequest, filter AccountFilter) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{})
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Currency != nil {
		base = base.Where("currency = ?", *filter.Currency)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := orderClause(filter.Ordering, accountOrderColumns, "created_at DESC")

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID.
func (s *accountService) GetAccountByID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount applies a partial update. Balance cannot be set here; it
// only moves through the transaction write path.
func (s *accountService) UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" && *fields.Name != account.Name {
		var count int64
		if err := s.db.Model(&models.Account{}).Where("name = ? AND id <> ?", *fields.Name, accountID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "an account with this name already exists")
		}
		updates["name"] = *fields.Name
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Currency != nil {
		updates["currency"] = *fields.Currency
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", accountID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount deletes an account together with all of its transactions.
// Both happen in one database transaction so no orphaned rows survive a
// partial failure.
func (s *accountService) DeleteAccount(accountID string) error {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetAccountSummary returns the total balance across all accounts plus
// active and total account counts.
func (s *accountService) GetAccountSummary() (*AccountSummary, error) {
	summary := &AccountSummary{TotalBalance: decimal.Zero}

	var total decimal.NullDecimal
	if err := s.db.Model(&models.Account{}).
		Select("SUM(balance)").
		Scan(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if total.Valid {
		summary.TotalBalance = total.Decimal
	}

	if err := s.db.Model(&models.Account{}).Count(&summary.TotalAccounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Account{}).Where("is_active = ?", true).Count(&summary.ActiveAccounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}

// applyBalanceEffect is the single point where an account balance moves.
// It adds the transaction's signed effect to the account's cached balance
// (or subtracts it when reversing) and persists the new balance using the
// caller's transaction handle, so the balance write commits or rolls back
// together with the transaction row it compensates for.
func applyBalanceEffect(tx *gorm.DB, accountID string, transaction *models.Transaction, reverse bool) error {
	var account models.Account
	if err := tx.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	effect := transaction.SignedEffect()
	if reverse {
		effect = effect.Neg()
	}
	if effect.IsZero() {
		return nil
	}

	newBalance := account.Balance.Add(effect)
	if err := tx.Model(&account).Update("balance", newBalance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
