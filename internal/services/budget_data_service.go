package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// budgetDataService handles the bulk fiscal budget dataset.
type budgetDataService struct {
	db *gorm.DB
}

// NewBudgetDataService creates a new BudgetDataServicer.
func NewBudgetDataService(db *gorm.DB) BudgetDataServicer {
	return &budgetDataService{db: db}
}

var budgetDataOrderColumns = map[string]string{
	"fiscal_year":    "fiscal_year",
	"processed_date": "processed_date",
	"budget_amount":  "budget_amount",
	"created_at":     "created_at",
}

func validFiscalYear(year int) bool {
	return year >= models.MinFiscalYear && year <= models.MaxFiscalYear
}

// CreateBudgetData creates a new fiscal budget record.
func (s *budgetDataService) CreateBudgetData(input BudgetDataInput) (*models.BudgetData, error) {
	if input.SheetSource == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sheet source is required")
	}
	if !validFiscalYear(input.FiscalYear) {
		return nil, apperrors.ErrInvalidFiscalYear
	}
	if input.BudgetCategory == "" || input.BudgetItem == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category and budget item are required")
	}
	if input.BudgetAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount cannot be negative")
	}

	record := &models.BudgetData{
		SheetSource:       input.SheetSource,
		FiscalYear:        input.FiscalYear,
		ProcessedDate:     input.ProcessedDate,
		BudgetCategory:    input.BudgetCategory,
		BudgetItem:        input.BudgetItem,
		BudgetAmount:      input.BudgetAmount,
		BudgetDescription: input.BudgetDescription,
		Department:        input.Department,
		AccountCode:       input.AccountCode,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return record, nil
}

// GetBudgetData retrieves a paginated, filtered list of fiscal budget records.
func (s *budgetDataService) GetBudgetData(page pagination.PageRequest, filter BudgetDataFilter) (*pagination.PageResponse[models.BudgetData], error) {
	page.Defaults()

	base := applyBudgetDataFilters(s.db.Model(&models.BudgetData{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	order := orderClause(filter.Ordering, budgetDataOrderColumns, "processed_date DESC")

	var records []models.BudgetData
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyBudgetDataFilters(q *gorm.DB, f BudgetDataFilter) *gorm.DB {
	if f.FiscalYear != nil {
		q = q.Where("fiscal_year = ?", *f.FiscalYear)
	}
	if f.FiscalYearMin != nil {
		q = q.Where("fiscal_year >= ?", *f.FiscalYearMin)
	}
	if f.FiscalYearMax != nil {
		q = q.Where("fiscal_year <= ?", *f.FiscalYearMax)
	}
	if f.ProcessedFrom != nil {
		q = q.Where("processed_date >= ?", *f.ProcessedFrom)
	}
	if f.ProcessedTo != nil {
		q = q.Where("processed_date <= ?", *f.ProcessedTo)
	}
	if f.BudgetCategory != nil {
		q = q.Where("budget_category = ?", *f.BudgetCategory)
	}
	if f.Department != nil {
		q = q.Where("department = ?", *f.Department)
	}
	if f.SheetSource != nil {
		q = q.Where("sheet_source = ?", *f.SheetSource)
	}
	return q
}

// GetBudgetDataByID retrieves a fiscal budget record by ID.
func (s *budgetDataService) GetBudgetDataByID(id string) (*models.BudgetData, error) {
	var record models.BudgetData
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetDataNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// UpdateBudgetData applies a partial update to a fiscal budget record.
func (s *budgetDataService) UpdateBudgetData(id string, fields BudgetDataUpdateFields) (*models.BudgetData, error) {
	record, err := s.GetBudgetDataByID(id)
	if err != nil {
		return nil, err
	}

	if fields.FiscalYear != nil && !validFiscalYear(*fields.FiscalYear) {
		return nil, apperrors.ErrInvalidFiscalYear
	}
	if fields.BudgetAmount != nil && fields.BudgetAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount cannot be negative")
	}

	updates := make(map[string]interface{})
	if fields.SheetSource != nil && *fields.SheetSource != "" {
		updates["sheet_source"] = *fields.SheetSource
	}
	if fields.FiscalYear != nil {
		updates["fiscal_year"] = *fields.FiscalYear
	}
	if fields.ProcessedDate != nil {
		updates["processed_date"] = *fields.ProcessedDate
	}
	if fields.BudgetCategory != nil && *fields.BudgetCategory != "" {
		updates["budget_category"] = *fields.BudgetCategory
	}
	if fields.BudgetItem != nil && *fields.BudgetItem != "" {
		updates["budget_item"] = *fields.BudgetItem
	}
	if fields.BudgetAmount != nil {
		updates["budget_amount"] = *fields.BudgetAmount
	}
	if fields.BudgetDescription != nil {
		updates["budget_description"] = *fields.BudgetDescription
	}
	if fields.Department != nil {
		updates["department"] = *fields.Department
	}
	if fields.AccountCode != nil {
		updates["account_code"] = *fields.AccountCode
	}

	if len(updates) > 0 {
		if err := s.db.Model(record).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", id).First(record).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return record, nil
}

// DeleteBudgetData deletes a fiscal budget record.
func (s *budgetDataService) DeleteBudgetData(id string) error {
	record, err := s.GetBudgetDataByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SummaryByYear aggregates the dataset per fiscal year: total amount,
// record count, and distinct category/department counts. Department
// counting skips blank departments.
func (s *budgetDataService) SummaryByYear() ([]YearSummary, error) {
	var rows []YearSummary
	err := s.db.Model(&models.BudgetData{}).
		Select("fiscal_year, " +
			"SUM(budget_amount) AS total_amount, " +
			"COUNT(*) AS record_count, " +
			"COUNT(DISTINCT budget_category) AS category_count, " +
			"COUNT(DISTINCT CASE WHEN department <> '' THEN department END) AS department_count").
		Group("fiscal_year").
		Order("fiscal_year ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []YearSummary{}
	}
	return rows, nil
}

// SummaryByCategory aggregates the dataset per (budget category, fiscal year).
func (s *budgetDataService) SummaryByCategory() ([]CategoryYearSummary, error) {
	var rows []CategoryYearSummary
	err := s.db.Model(&models.BudgetData{}).
		Select("budget_category, fiscal_year, SUM(budget_amount) AS total_amount, COUNT(*) AS record_count").
		Group("budget_category, fiscal_year").
		Order("fiscal_year ASC, total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []CategoryYearSummary{}
	}
	return rows, nil
}

// SummaryByDepartment aggregates the dataset per (department, fiscal
// year). Records with a blank department are excluded.
func (s *budgetDataService) SummaryByDepartment() ([]DepartmentYearSummary, error) {
	var rows []DepartmentYearSummary
	err := s.db.Model(&models.BudgetData{}).
		Select("department, fiscal_year, SUM(budget_amount) AS total_amount, COUNT(*) AS record_count").
		Where("department <> ''").
		Group("department, fiscal_year").
		Order("fiscal_year ASC, total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []DepartmentYearSummary{}
	}
	return rows, nil
}
