package services

import (
	"testing"

	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("updates_project_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		_, err := svc.CreateExpense(user.ID, project.ID, "equipment", "camera rental", 250, nil, "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateExpense(user.ID, project.ID, "travel", "", 100, nil, "", "")
		testutil.AssertNoError(t, err)

		var reloaded models.Project
		db.First(&reloaded, project.ID)
		if reloaded.Spent != 350 {
			t.Errorf("expected project spent 350, got %v", reloaded.Spent)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		_, err := svc.CreateExpense(user.ID, project.ID, "equipment", "", 0, nil, "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateExpense(user.ID, 9999, "equipment", "", 100, nil, "", "")
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("amount_change_adjusts_project_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		expense, err := svc.CreateExpense(user.ID, project.ID, "equipment", "", 250, nil, "", "")
		testutil.AssertNoError(t, err)

		amount := 400.0
		updated, err := svc.UpdateExpense(expense.ID, ExpenseUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 400 {
			t.Errorf("expected amount 400, got %v", updated.Amount)
		}

		var reloaded models.Project
		db.First(&reloaded, project.ID)
		if reloaded.Spent != 400 {
			t.Errorf("expected project spent 400 after amount change, got %v", reloaded.Spent)
		}
	})

	t.Run("sparse_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		expense, err := svc.CreateExpense(user.ID, project.ID, "equipment", "", 250, nil, "Lens World", "")
		testutil.AssertNoError(t, err)

		vendor := "Camera House"
		updated, err := svc.UpdateExpense(expense.ID, ExpenseUpdate{Vendor: &vendor})
		testutil.AssertNoError(t, err)
		if updated.Vendor != "Camera House" {
			t.Errorf("expected vendor updated, got %s", updated.Vendor)
		}
		if updated.Amount != 250 {
			t.Errorf("amount changed unexpectedly to %v", updated.Amount)
		}
	})

	t.Run("no_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		expense, err := svc.CreateExpense(user.ID, project.ID, "equipment", "", 250, nil, "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateExpense(expense.ID, ExpenseUpdate{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		amount := 100.0
		_, err := svc.UpdateExpense(9999, ExpenseUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	t.Run("reduces_project_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		expense, err := svc.CreateExpense(user.ID, project.ID, "equipment", "", 250, nil, "", "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteExpense(expense.ID))

		var reloaded models.Project
		db.First(&reloaded, project.ID)
		if reloaded.Spent != 0 {
			t.Errorf("expected project spent back to 0, got %v", reloaded.Spent)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		err := svc.DeleteExpense(9999)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestGetExpenses(t *testing.T) {
	t.Run("category_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		testutil.CreateTestExpense(t, db, project.ID, "equipment", 100)
		testutil.CreateTestExpense(t, db, project.ID, "travel", 50)

		result, err := svc.GetExpenses(pagination.PageRequest{}, nil, "travel")
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 travel expense, got %d", result.TotalItems)
		}
		if result.Data[0].Category != "travel" {
			t.Errorf("expected travel category, got %s", result.Data[0].Category)
		}
	})
}
