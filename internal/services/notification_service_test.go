package services

import (
	"testing"

	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/testutil"
)

func TestNotify(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)

		user := testutil.CreateTestUser(t, db)
		err := svc.Notify(user.ID, "account", "Account approved", "welcome aboard", nil, "")
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 notification, got %d", count)
		}
	})

	t.Run("missing_type_or_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)

		user := testutil.CreateTestUser(t, db)
		err := svc.Notify(user.ID, "", "Title", "", nil, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		err = svc.Notify(user.ID, "account", "", "", nil, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestMarkNotificationRead(t *testing.T) {
	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		notification := testutil.CreateTestNotification(t, db, owner.ID)

		err := svc.MarkNotificationRead(other.ID, notification.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")

		testutil.AssertNoError(t, svc.MarkNotificationRead(owner.ID, notification.ID))

		var reloaded models.Notification
		db.First(&reloaded, notification.ID)
		if !reloaded.IsRead {
			t.Error("expected notification marked read")
		}
	})
}

func TestMarkAllRead(t *testing.T) {
	t.Run("only_own_notifications", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestNotification(t, db, user.ID)
		testutil.CreateTestNotification(t, db, user.ID)
		testutil.CreateTestNotification(t, db, other.ID)

		testutil.AssertNoError(t, svc.MarkAllRead(user.ID))

		result, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, true)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected 0 unread for user, got %d", result.TotalItems)
		}

		result, err = svc.GetUserNotifications(other.ID, pagination.PageRequest{}, true)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected other user's notification untouched, got %d unread", result.TotalItems)
		}
	})
}

func TestDeleteNotification(t *testing.T) {
	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		notification := testutil.CreateTestNotification(t, db, owner.ID)

		err := svc.DeleteNotification(other.ID, notification.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")

		testutil.AssertNoError(t, svc.DeleteNotification(owner.ID, notification.ID))
	})
}
