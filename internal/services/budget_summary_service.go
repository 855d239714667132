package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetSummaryService handles precomputed sheet statistics.
type budgetSummaryService struct {
	db *gorm.DB
}

// NewBudgetSummaryService creates a new BudgetSummaryServicer.
func NewBudgetSummaryService(db *gorm.DB) BudgetSummaryServicer {
	return &budgetSummaryService{db: db}
}

// CreateBudgetSummary creates a new budget summary.
func (s *budgetSummaryService) CreateBudgetSummary(input BudgetSummaryInput) (*models.BudgetSummary, error) {
	if input.SheetName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sheet name is required")
	}
	if !validFiscalYear(input.FiscalYear) {
		return nil, apperrors.ErrInvalidFiscalYear
	}
	if input.TotalRecords < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total records cannot be negative")
	}

	summary := &models.BudgetSummary{
		SheetName:         input.SheetName,
		FiscalYear:        input.FiscalYear,
		TotalRecords:      input.TotalRecords,
		TotalBudgetAmount: input.TotalBudgetAmount,
		MaxBudgetItem:     input.MaxBudgetItem,
		MinBudgetItem:     input.MinBudgetItem,
		AverageBudgetItem: input.AverageBudgetItem,
		ProcessingDate:    input.ProcessingDate,
	}

	if err := s.db.Create(summary).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}

// GetBudgetSummaries retrieves a paginated, filtered list of budget
// summaries, most recently processed first.
func (s *budgetSummaryService) GetBudgetSummaries(page pagination.PageRequest, filter BudgetSummaryFilter) (*pagination.PageResponse[models.BudgetSummary], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetSummary{})
	if filter.FiscalYear != nil {
		base = base.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.SheetName != nil {
		base = base.Where("sheet_name = ?", *filter.SheetName)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var summaries []models.BudgetSummary
	if err := base.Scopes(pagination.Paginate(page)).
		Order("processing_date DESC").
		Find(&summaries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(summaries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetSummaryByID retrieves a budget summary by ID.
func (s *budgetSummaryService) GetBudgetSummaryByID(id string) (*models.BudgetSummary, error) {
	var summary models.BudgetSummary
	if err := s.db.Where("id = ?", id).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetSummaryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &summary, nil
}

// UpdateBudgetSummary applies a partial update to a budget summary.
func (s *budgetSummaryService) UpdateBudgetSummary(id string, fields BudgetSummaryUpdateFields) (*models.BudgetSummary, error) {
	summary, err := s.GetBudgetSummaryByID(id)
	if err != nil {
		return nil, err
	}

	if fields.FiscalYear != nil && !validFiscalYear(*fields.FiscalYear) {
		return nil, apperrors.ErrInvalidFiscalYear
	}
	if fields.TotalRecords != nil && *fields.TotalRecords < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total records cannot be negative")
	}

	updates := make(map[string]interface{})
	if fields.SheetName != nil && *fields.SheetName != "" {
		updates["sheet_name"] = *fields.SheetName
	}
	if fields.FiscalYear != nil {
		updates["fiscal_year"] = *fields.FiscalYear
	}
	if fields.TotalRecords != nil {
		updates["total_records"] = *fields.TotalRecords
	}
	if fields.TotalBudgetAmount != nil {
		updates["total_budget_amount"] = *fields.TotalBudgetAmount
	}
	if fields.MaxBudgetItem != nil {
		updates["max_budget_item"] = *fields.MaxBudgetItem
	}
	if fields.MinBudgetItem != nil {
		updates["min_budget_item"] = *fields.MinBudgetItem
	}
	if fields.AverageBudgetItem != nil {
		updates["average_budget_item"] = *fields.AverageBudgetItem
	}
	if fields.ProcessingDate != nil {
		updates["processing_date"] = *fields.ProcessingDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(summary).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", id).First(summary).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return summary, nil
}

// DeleteBudgetSummary deletes a budget summary.
func (s *budgetSummaryService) DeleteBudgetSummary(id string) error {
	summary, err := s.GetBudgetSummaryByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(summary).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// LatestByYear returns the most recently processed summary for each
// fiscal year, ordered by fiscal year ascending. Rows are reduced in Go
// so the query stays portable across Postgres and SQLite.
func (s *budgetSummaryService) LatestByYear() ([]models.BudgetSummary, error) {
	var summaries []models.BudgetSummary
	if err := s.db.Model(&models.BudgetSummary{}).
		Order("fiscal_year ASC, processing_date DESC").
		Find(&summaries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	latest := make([]models.BudgetSummary, 0, len(summaries))
	seen := make(map[int]bool)
	for _, summary := range summaries {
		if seen[summary.FiscalYear] {
			continue
		}
		seen[summary.FiscalYear] = true
		latest = append(latest, summary)
	}
	return latest, nil
}
