package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateBudgetData(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		record, err := svc.CreateBudgetData(BudgetDataInput{
			SheetSource:    "fy2026-budget.xlsx",
			FiscalYear:     2026,
			ProcessedDate:  models.NewDate(2026, 7, 1),
			BudgetCategory: "Operations",
			BudgetItem:     "Office supplies",
			BudgetAmount:   dec("1200.00"),
			Department:     "Facilities",
			AccountCode:    "OPS-100",
		})
		testutil.AssertNoError(t, err)
		if record.ID == "" {
			t.Fatal("expected non-empty record ID")
		}
	})

	t.Run("fiscal_year_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		for _, year := range []int{1899, 2101, 0} {
			_, err := svc.CreateBudgetData(BudgetDataInput{
				SheetSource:    "sheet.xlsx",
				FiscalYear:     year,
				BudgetCategory: "Operations",
				BudgetItem:     "Item",
				BudgetAmount:   dec("1.00"),
			})
			testutil.AssertAppError(t, err, "INVALID_FISCAL_YEAR")
		}
	})

	t.Run("boundary_years_accepted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		for _, year := range []int{models.MinFiscalYear, models.MaxFiscalYear} {
			_, err := svc.CreateBudgetData(BudgetDataInput{
				SheetSource:    "sheet.xlsx",
				FiscalYear:     year,
				BudgetCategory: "Operations",
				BudgetItem:     "Item",
				BudgetAmount:   dec("1.00"),
			})
			testutil.AssertNoError(t, err)
		}
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		_, err := svc.CreateBudgetData(BudgetDataInput{
			SheetSource:    "sheet.xlsx",
			FiscalYear:     2026,
			BudgetCategory: "Operations",
			BudgetItem:     "Item",
			BudgetAmount:   dec("-1.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		_, err := svc.CreateBudgetData(BudgetDataInput{
			FiscalYear:     2026,
			BudgetCategory: "Operations",
			BudgetItem:     "Item",
			BudgetAmount:   dec("1.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudgetData(BudgetDataInput{
			SheetSource:  "sheet.xlsx",
			FiscalYear:   2026,
			BudgetAmount: dec("1.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetBudgetData(t *testing.T) {
	t.Run("filters_by_year_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		testutil.CreateTestBudgetData(t, db, 2024, "Operations", dec("100.00"))
		testutil.CreateTestBudgetData(t, db, 2025, "Operations", dec("200.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("300.00"))

		minYear, maxYear := 2025, 2026
		result, err := svc.GetBudgetData(pagination.PageRequest{}, BudgetDataFilter{
			FiscalYearMin: &minYear,
			FiscalYearMax: &maxYear,
		})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 records, got %d", result.TotalItems)
		}
	})

	t.Run("orders_by_requested_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("300.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))

		result, err := svc.GetBudgetData(pagination.PageRequest{}, BudgetDataFilter{Ordering: "-budget_amount"})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 2 {
			t.Fatalf("expected 2 records, got %d", len(result.Data))
		}
		testutil.AssertDecimalEqual(t, dec("300.00"), result.Data[0].BudgetAmount, "first amount")
	})

	t.Run("filters_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Payroll", dec("200.00"))

		category := "Payroll"
		result, err := svc.GetBudgetData(pagination.PageRequest{}, BudgetDataFilter{BudgetCategory: &category})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 record, got %d", result.TotalItems)
		}
	})
}

func TestUpdateBudgetData(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)
		record := testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))

		amount := dec("175.00")
		department := "Engineering"
		updated, err := svc.UpdateBudgetData(record.ID, BudgetDataUpdateFields{
			BudgetAmount: &amount,
			Department:   &department,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("175.00"), updated.BudgetAmount, "amount")
		if updated.Department != "Engineering" {
			t.Errorf("expected department Engineering, got %s", updated.Department)
		}
	})

	t.Run("rejects_out_of_range_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)
		record := testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))

		year := 2200
		_, err := svc.UpdateBudgetData(record.ID, BudgetDataUpdateFields{FiscalYear: &year})
		testutil.AssertAppError(t, err, "INVALID_FISCAL_YEAR")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		year := 2026
		_, err := svc.UpdateBudgetData("00000000-0000-0000-0000-000000000000", BudgetDataUpdateFields{FiscalYear: &year})
		testutil.AssertAppError(t, err, "BUDGET_DATA_NOT_FOUND")
	})
}

func TestBudgetDataSummaries(t *testing.T) {
	t.Run("summary_by_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		withDept := testutil.CreateTestBudgetData(t, db, 2025, "Operations", dec("100.00"))
		db.Model(withDept).Update("department", "Facilities")
		testutil.CreateTestBudgetData(t, db, 2025, "Payroll", dec("200.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("50.00"))

		rows, err := svc.SummaryByYear()
		testutil.AssertNoError(t, err)
		if len(rows) != 2 {
			t.Fatalf("expected 2 years, got %d", len(rows))
		}

		if rows[0].FiscalYear != 2025 {
			t.Errorf("expected first year 2025, got %d", rows[0].FiscalYear)
		}
		testutil.AssertDecimalEqual(t, dec("300.00"), rows[0].TotalAmount, "2025 total")
		if rows[0].RecordCount != 2 || rows[0].CategoryCount != 2 {
			t.Errorf("unexpected 2025 counts: records=%d categories=%d", rows[0].RecordCount, rows[0].CategoryCount)
		}
		if rows[0].DepartmentCount != 1 {
			t.Errorf("expected 1 department (blank excluded), got %d", rows[0].DepartmentCount)
		}
	})

	t.Run("summary_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("50.00"))
		testutil.CreateTestBudgetData(t, db, 2026, "Payroll", dec("400.00"))

		rows, err := svc.SummaryByCategory()
		testutil.AssertNoError(t, err)
		if len(rows) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(rows))
		}

		// Within a year, largest total first.
		if rows[0].BudgetCategory != "Payroll" {
			t.Errorf("expected Payroll first, got %s", rows[0].BudgetCategory)
		}
		testutil.AssertDecimalEqual(t, dec("150.00"), rows[1].TotalAmount, "Operations total")
		if rows[1].RecordCount != 2 {
			t.Errorf("expected Operations count 2, got %d", rows[1].RecordCount)
		}
	})

	t.Run("summary_by_department_excludes_blanks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		withDept := testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("100.00"))
		db.Model(withDept).Update("department", "Facilities")
		testutil.CreateTestBudgetData(t, db, 2026, "Operations", dec("999.00"))

		rows, err := svc.SummaryByDepartment()
		testutil.AssertNoError(t, err)
		if len(rows) != 1 {
			t.Fatalf("expected 1 group, got %d", len(rows))
		}
		if rows[0].Department != "Facilities" {
			t.Errorf("expected Facilities, got %s", rows[0].Department)
		}
		testutil.AssertDecimalEqual(t, dec("100.00"), rows[0].TotalAmount, "total")
	})

	t.Run("empty_dataset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetDataService(db)

		rows, err := svc.SummaryByYear()
		testutil.AssertNoError(t, err)
		if len(rows) != 0 {
			t.Errorf("expected no rows, got %d", len(rows))
		}
	})
}
