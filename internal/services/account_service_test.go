package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("success_with_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateAccount("Main Checking", "", "", "", decimal.Zero)
		testutil.AssertNoError(t, err)
		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		if account.Type != models.AccountTypeChecking {
			t.Errorf("expected default type checking, got %s", account.Type)
		}
		if account.Currency != "USD" {
			t.Errorf("expected default currency USD, got %s", account.Currency)
		}
		if !account.IsActive {
			t.Error("expected account active by default")
		}
	})

	t.Run("initial_balance_records_opening_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateAccount("Savings", models.AccountTypeSavings, "USD", "", dec("250.00"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("250.00"), account.Balance, "balance")

		var transactions []models.Transaction
		testutil.AssertNoError(t, db.Where("account_id = ?", account.ID).Find(&transactions).Error)
		if len(transactions) != 1 {
			t.Fatalf("expected 1 opening transaction, got %d", len(transactions))
		}
		if transactions[0].Type != models.TransactionTypeIncome {
			t.Errorf("expected income transaction, got %s", transactions[0].Type)
		}
		testutil.AssertDecimalEqual(t, dec("250.00"), transactions[0].Amount, "opening amount")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("", "", "", "", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_initial_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("Overdrawn", "", "", "", dec("-10.00"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("Wallet", "", "", "", decimal.Zero)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateAccount("Wallet", "", "", "", decimal.Zero)
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccount(t, db)

		name := "Renamed"
		accountType := models.AccountTypeSavings
		inactive := false
		updated, err := svc.UpdateAccount(account.ID, AccountUpdateFields{
			Name:     &name,
			Type:     &accountType,
			IsActive: &inactive,
		})
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		if updated.Type != models.AccountTypeSavings {
			t.Errorf("expected type savings, got %s", updated.Type)
		}
		if updated.IsActive {
			t.Error("expected account inactive")
		}
	})

	t.Run("rename_to_existing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		first := testutil.CreateTestAccount(t, db)
		second := testutil.CreateTestAccount(t, db)

		_, err := svc.UpdateAccount(second.ID, AccountUpdateFields{Name: &first.Name})
		testutil.AssertAppError(t, err, "DUPLICATE_NAME")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		name := "Ghost"
		_, err := svc.UpdateAccount("00000000-0000-0000-0000-000000000000", AccountUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("cascades_to_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeExpense, dec("10.00"))
		testutil.CreateTestTransaction(t, db, account.ID, models.TransactionTypeIncome, dec("20.00"))

		testutil.AssertNoError(t, svc.DeleteAccount(account.ID))

		_, err := svc.GetAccountByID(account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

		var count int64
		db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected transactions deleted, got %d rows", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		err := svc.DeleteAccount("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestGetAccounts(t *testing.T) {
	t.Run("filters_by_type_and_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("Checking One", models.AccountTypeChecking, "USD", "", decimal.Zero)
		testutil.AssertNoError(t, err)
		savings, err := svc.CreateAccount("Savings One", models.AccountTypeSavings, "USD", "", decimal.Zero)
		testutil.AssertNoError(t, err)

		savingsType := models.AccountTypeSavings
		result, err := svc.GetAccounts(pagination.PageRequest{}, AccountFilter{Type: &savingsType})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 account, got %d", result.TotalItems)
		}
		if result.Data[0].ID != savings.ID {
			t.Errorf("expected account %s, got %s", savings.ID, result.Data[0].ID)
		}
	})

	t.Run("search_matches_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("Travel Fund", models.AccountTypeSavings, "USD", "", decimal.Zero)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateAccount("Daily Spend", models.AccountTypeChecking, "USD", "", decimal.Zero)
		testutil.AssertNoError(t, err)

		result, err := svc.GetAccounts(pagination.PageRequest{}, AccountFilter{Search: "Travel"})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 match, got %d", result.TotalItems)
		}
	})
}

func TestGetAccountSummary(t *testing.T) {
	t.Run("sums_balances_and_counts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		testutil.CreateTestAccountWithBalance(t, db, dec("100.00"))
		inactive := testutil.CreateTestAccountWithBalance(t, db, dec("50.00"))
		db.Model(inactive).Update("is_active", false)

		summary, err := svc.GetAccountSummary()
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("150.00"), summary.TotalBalance, "total balance")
		if summary.TotalAccounts != 2 {
			t.Errorf("expected 2 accounts, got %d", summary.TotalAccounts)
		}
		if summary.ActiveAccounts != 1 {
			t.Errorf("expected 1 active account, got %d", summary.ActiveAccounts)
		}
	})

	t.Run("empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		summary, err := svc.GetAccountSummary()
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, summary.TotalBalance, "total balance")
		if summary.TotalAccounts != 0 {
			t.Errorf("expected 0 accounts, got %d", summary.TotalAccounts)
		}
	})
}
