package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

var oneHundred = decimal.NewFromInt(100)

// CreateBudget creates a new budget for a category.
func (s *budgetService) CreateBudget(input BudgetInput) (*models.Budget, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date and end date are required")
	}
	if input.EndDate.Before(input.StartDate.Time) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var category models.Category
	if err := s.db.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Notes:      input.Notes,
		IsActive:   true,
	}
	if input.IsActive != nil {
		budget.IsActive = *input.IsActive
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.Category = category
	return budget, nil
}

// GetBudgets returns a paginated list of budgets with optional filters,
// most recent window first.
func (s *budgetService) GetBudgets(page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{})
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if filter.ActiveOnly {
		today := models.Today()
		base = base.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, today, today)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies a partial update, revalidating the date window
// and amount against the merged result.
func (s *budgetService) UpdateBudget(budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	startDate := budget.StartDate
	endDate := budget.EndDate
	if fields.StartDate != nil {
		startDate = *fields.StartDate
	}
	if fields.EndDate != nil {
		endDate = *fields.EndDate
	}
	if endDate.Before(startDate.Time) {
		return nil, apperrors.ErrInvalidDateRange
	}
	if fields.Amount != nil && !fields.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	updates := make(map[string]interface{})
	if fields.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *fields.CategoryID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
		updates["category_id"] = *fields.CategoryID
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
	}
	if fields.StartDate != nil {
		updates["start_date"] = *fields.StartDate
	}
	if fields.EndDate != nil {
		updates["end_date"] = *fields.EndDate
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBudgetByID(budgetID)
}

// DeleteBudget deletes a budget.
func (s *budgetService) DeleteBudget(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// EvaluateBudget computes spending against a budget. Spent is the sum of
// expense transactions in the budget's category dated inside the window,
// both ends inclusive. Remaining may go negative: over-budget is a state,
// not an error. The figures are recomputed on every call and never stored.
func (s *budgetService) EvaluateBudget(budget *models.Budget) (*BudgetReport, error) {
	var spent decimal.NullDecimal
	err := s.db.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("category_id = ? AND type = ? AND date >= ? AND date <= ?",
			budget.CategoryID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spentAmount := decimal.Zero
	if spent.Valid {
		spentAmount = spent.Decimal
	}

	progress := decimal.Zero
	if budget.Amount.IsPositive() {
		progress = spentAmount.Div(budget.Amount).Mul(oneHundred).Round(2)
	}

	return &BudgetReport{
		Budget:             budget,
		SpentAmount:        spentAmount,
		RemainingAmount:    budget.Amount.Sub(spentAmount),
		ProgressPercentage: progress,
	}, nil
}

// GetCurrentBudgets returns the budgets that are active and whose window
// contains today.
func (s *budgetService) GetCurrentBudgets() ([]models.Budget, error) {
	today := models.Today()

	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, today, today).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}
