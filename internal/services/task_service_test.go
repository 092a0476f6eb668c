package services

import (
	"testing"

	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/testutil"
)

func TestCreateTask(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		task, err := svc.CreateTask(project.ID, "Design mockups", "", models.PriorityHigh, nil, nil, 4)
		testutil.AssertNoError(t, err)

		if task.Status != models.TaskStatusTodo {
			t.Errorf("expected status todo, got %s", task.Status)
		}
		if task.Priority != models.PriorityHigh {
			t.Errorf("expected priority high, got %s", task.Priority)
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		_, err := svc.CreateTask(9999, "Orphan task", "", "", nil, nil, 0)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestGetUserTasks(t *testing.T) {
	t.Run("only_assigned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		mine := testutil.CreateTestTask(t, db, project.ID)
		db.Model(mine).Update("assigned_to", user.ID)
		theirs := testutil.CreateTestTask(t, db, project.ID)
		db.Model(theirs).Update("assigned_to", other.ID)

		result, err := svc.GetUserTasks(user.ID, pagination.PageRequest{}, nil)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 task, got %d", result.TotalItems)
		}
		if result.Data[0].ID != mine.ID {
			t.Errorf("expected task %d, got %d", mine.ID, result.Data[0].ID)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("completion_stamps_completed_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		completed := models.TaskStatusCompleted
		updated, err := svc.UpdateTask(task.ID, TaskUpdate{Status: &completed})
		testutil.AssertNoError(t, err)

		if updated.CompletedAt == nil {
			t.Fatal("expected completed_at to be stamped")
		}
	})

	t.Run("reopening_clears_completed_at", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		completed := models.TaskStatusCompleted
		_, err := svc.UpdateTask(task.ID, TaskUpdate{Status: &completed})
		testutil.AssertNoError(t, err)

		inProgress := models.TaskStatusInProgress
		updated, err := svc.UpdateTask(task.ID, TaskUpdate{Status: &inProgress})
		testutil.AssertNoError(t, err)

		if updated.CompletedAt != nil {
			t.Error("expected completed_at to be cleared on reopen")
		}
	})

	t.Run("completing_twice_keeps_original_stamp", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		completed := models.TaskStatusCompleted
		_, err := svc.UpdateTask(task.ID, TaskUpdate{Status: &completed})
		testutil.AssertNoError(t, err)

		second, err := svc.UpdateTask(task.ID, TaskUpdate{Status: &completed})
		testutil.AssertNoError(t, err)

		if second.CompletedAt == nil {
			t.Error("expected completed_at to be preserved when already completed")
		}
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		err := svc.DeleteTask(9999)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestGetKanbanBoard(t *testing.T) {
	t.Run("groups_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		testutil.CreateTestTask(t, db, project.ID)
		testutil.CreateTestTask(t, db, project.ID)
		review := testutil.CreateTestTask(t, db, project.ID)
		status := models.TaskStatusReview
		_, err := svc.UpdateTask(review.ID, TaskUpdate{Status: &status})
		testutil.AssertNoError(t, err)

		board, err := svc.GetKanbanBoard(project.ID)
		testutil.AssertNoError(t, err)

		if len(board[models.TaskStatusTodo]) != 2 {
			t.Errorf("expected 2 todo tasks, got %d", len(board[models.TaskStatusTodo]))
		}
		if len(board[models.TaskStatusReview]) != 1 {
			t.Errorf("expected 1 review task, got %d", len(board[models.TaskStatusReview]))
		}
	})

	t.Run("empty_columns_present", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		board, err := svc.GetKanbanBoard(project.ID)
		testutil.AssertNoError(t, err)

		for _, status := range []models.TaskStatus{
			models.TaskStatusTodo, models.TaskStatusInProgress,
			models.TaskStatusReview, models.TaskStatusCompleted,
		} {
			column, ok := board[status]
			if !ok {
				t.Errorf("expected %s column to exist", status)
			}
			if len(column) != 0 {
				t.Errorf("expected %s column to be empty, got %d", status, len(column))
			}
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		_, err := svc.GetKanbanBoard(9999)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}
