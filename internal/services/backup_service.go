package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"studiohub/internal/config"
	apperrors "studiohub/internal/errors"
	"studiohub/internal/logger"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// backupService copies stored files into the backup directory and records
// backup metadata.
type backupService struct {
	db *gorm.DB
}

// NewBackupService creates a new BackupServicer.
func NewBackupService(db *gorm.DB) BackupServicer {
	return &backupService{db: db}
}

// CreateBackup copies one of the user's files into the backup directory and
// records the backup. The copy and the metadata row are one operation: if
// either fails, the other is rolled back so no half-finished backup remains.
func (s *backupService) CreateBackup(userID, fileID uint) (*models.Backup, error) {
	var file models.StoredFile
	if err := s.db.Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cfg := config.Get()
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, err)
	}

	backupName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), file.StoredName)
	backupPath := filepath.Join(cfg.BackupDir, backupName)

	size, err := copyFile(file.Path, backupPath)
	if err != nil {
		s.removeQuietly(backupPath)
		return nil, apperrors.Wrap(apperrors.ErrBackupFailed, err)
	}

	now := time.Now()
	backup := &models.Backup{
		UserID:      userID,
		FileID:      file.ID,
		FileName:    file.OriginalName,
		BackupPath:  backupPath,
		Size:        size,
		Status:      "completed",
		CompletedAt: &now,
	}

	if err := s.db.Create(backup).Error; err != nil {
		s.removeQuietly(backupPath)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return backup, nil
}

// GetUserBackups returns a paginated list of the user's backups.
func (s *backupService) GetUserBackups(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Backup], error) {
	page.Defaults()

	base := s.db.Model(&models.Backup{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var backups []models.Backup
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&backups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(backups, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllBackups returns a paginated list of every user's backups, for the
// administrative backup log.
func (s *backupService) GetAllBackups(page pagination.PageRequest) (*pagination.PageResponse[models.Backup], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Backup{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var backups []models.Backup
	if err := s.db.Model(&models.Backup{}).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&backups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(backups, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteBackup removes a backup's metadata row and its copy on disk.
func (s *backupService) DeleteBackup(userID, backupID uint) error {
	var backup models.Backup
	if err := s.db.Where("id = ? AND user_id = ?", backupID, userID).First(&backup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBackupNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&backup).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.removeQuietly(backup.BackupPath)
	return nil
}

func (s *backupService) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get().Warnw("failed to remove backup file", "path", path, "error", err)
	}
}

// copyFile copies src to dst and returns the number of bytes written.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	return written, err
}
