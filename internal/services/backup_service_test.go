package services

import (
	"os"
	"strings"
	"testing"

	"studiohub/internal/models"
	"studiohub/internal/testutil"
)

func TestCreateBackup(t *testing.T) {
	t.Run("copies_file", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fileSvc := NewFileService(db)
		svc := NewBackupService(db)

		user := testutil.CreateTestUser(t, db)
		content := "backup me"
		file, err := fileSvc.SaveFile(user.ID, "important.txt", int64(len(content)), strings.NewReader(content))
		testutil.AssertNoError(t, err)

		backup, err := svc.CreateBackup(user.ID, file.ID)
		testutil.AssertNoError(t, err)

		if backup.Status != "completed" {
			t.Errorf("expected status completed, got %s", backup.Status)
		}
		if backup.CompletedAt == nil {
			t.Error("expected completed_at stamped")
		}
		if backup.Size != int64(len(content)) {
			t.Errorf("expected size %d, got %d", len(content), backup.Size)
		}
		if _, err := os.Stat(backup.BackupPath); err != nil {
			t.Errorf("expected backup copy on disk: %v", err)
		}
		if _, err := os.Stat(file.Path); err != nil {
			t.Errorf("expected original still on disk: %v", err)
		}
	})

	t.Run("unknown_file", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBackupService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateBackup(user.ID, 9999)
		testutil.AssertAppError(t, err, "FILE_NOT_FOUND")
	})

	t.Run("other_users_file", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fileSvc := NewFileService(db)
		svc := NewBackupService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		content := "private"
		file, err := fileSvc.SaveFile(owner.ID, "private.txt", int64(len(content)), strings.NewReader(content))
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBackup(other.ID, file.ID)
		testutil.AssertAppError(t, err, "FILE_NOT_FOUND")
	})

	t.Run("missing_source_leaves_no_row", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fileSvc := NewFileService(db)
		svc := NewBackupService(db)

		user := testutil.CreateTestUser(t, db)
		content := "ephemeral"
		file, err := fileSvc.SaveFile(user.ID, "gone.txt", int64(len(content)), strings.NewReader(content))
		testutil.AssertNoError(t, err)

		// Remove the bytes behind the metadata row so the copy fails.
		if err := os.Remove(file.Path); err != nil {
			t.Fatalf("failed to remove source file: %v", err)
		}

		_, err = svc.CreateBackup(user.ID, file.ID)
		testutil.AssertAppError(t, err, "BACKUP_FAILED")

		var count int64
		db.Model(&models.Backup{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected no backup row after failure, got %d", count)
		}
	})
}

func TestDeleteBackup(t *testing.T) {
	t.Run("removes_row_and_copy", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fileSvc := NewFileService(db)
		svc := NewBackupService(db)

		user := testutil.CreateTestUser(t, db)
		content := "backup me"
		file, err := fileSvc.SaveFile(user.ID, "important.txt", int64(len(content)), strings.NewReader(content))
		testutil.AssertNoError(t, err)

		backup, err := svc.CreateBackup(user.ID, file.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteBackup(user.ID, backup.ID))

		if _, err := os.Stat(backup.BackupPath); !os.IsNotExist(err) {
			t.Error("expected backup copy removed from disk")
		}
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		setupStorage(t, 1024, 4096)
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fileSvc := NewFileService(db)
		svc := NewBackupService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		content := "backup me"
		file, err := fileSvc.SaveFile(owner.ID, "important.txt", int64(len(content)), strings.NewReader(content))
		testutil.AssertNoError(t, err)

		backup, err := svc.CreateBackup(owner.ID, file.ID)
		testutil.AssertNoError(t, err)

		err = svc.DeleteBackup(other.ID, backup.ID)
		testutil.AssertAppError(t, err, "BACKUP_NOT_FOUND")
	})
}
