package services

import (
	"testing"

	"studiohub/internal/models"
	"studiohub/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("first_user_becomes_approved_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Role != models.RoleAdmin {
			t.Errorf("expected first user role admin, got %s", user.Role)
		}
		if user.Status != models.UserStatusApproved {
			t.Errorf("expected first user status approved, got %s", user.Status)
		}
	})

	t.Run("subsequent_users_are_pending_team_members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		user, err := svc.Register("bob", "bob@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.Role != models.RoleTeamMember {
			t.Errorf("expected role team-member, got %s", user.Role)
		}
		if user.Status != models.UserStatusPending {
			t.Errorf("expected status pending, got %s", user.Status)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "dup@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("someone", "dup@example.com", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("alice", "other@example.com", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "Alice@EXAMPLE.COM", "password123")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "alice@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("alice", "", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("alice", "alice@example.com", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("approved_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.AttemptLogin(created.Email, "password123")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		_, err := svc.AttemptLogin(created.Email, "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("pending_user_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		pending := testutil.CreateTestPendingUser(t, db)
		_, err := svc.AttemptLogin(pending.Email, "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_APPROVED")
	})

	t.Run("pending_user_rejected_before_password_check", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		pending := testutil.CreateTestPendingUser(t, db)
		_, err := svc.AttemptLogin(pending.Email, "wrongpassword")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_APPROVED")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("sparse_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		updated, err := svc.UpdateProfile(created.ID, ProfileUpdate{Phone: "555-1234", City: "Oslo"})
		testutil.AssertNoError(t, err)

		if updated.Phone != "555-1234" {
			t.Errorf("expected phone 555-1234, got %s", updated.Phone)
		}
		if updated.City != "Oslo" {
			t.Errorf("expected city Oslo, got %s", updated.City)
		}
		if updated.Username != created.Username {
			t.Errorf("username changed unexpectedly to %s", updated.Username)
		}
	})

	t.Run("username_taken", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		existing := testutil.CreateTestUser(t, db)
		victim := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateProfile(victim.ID, ProfileUpdate{Username: existing.Username})
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		err := svc.ChangePassword(created.ID, "password123", "newpassword456")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(created.Email, "newpassword456")
		testutil.AssertNoError(t, err)
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		err := svc.ChangePassword(created.ID, "wrongpassword", "newpassword456")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
