package services

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiohub/internal/config"
	apperrors "studiohub/internal/errors"
	"studiohub/internal/logger"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// fileService handles user file storage on local disk with per-user quotas.
type fileService struct {
	db *gorm.DB
}

// NewFileService creates a new FileServicer.
func NewFileService(db *gorm.DB) FileServicer {
	return &fileService{db: db}
}

// SaveFile writes an uploaded file to disk under a generated name and
// records its metadata. The upload is rejected if it exceeds the maximum
// upload size or would push the user over their storage quota. A failed
// metadata insert removes the file from disk again.
func (s *fileService) SaveFile(userID uint, originalName string, size int64, src io.Reader) (*models.StoredFile, error) {
	if originalName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "file name is required")
	}

	cfg := config.Get()
	if size > cfg.MaxUploadBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	used, err := s.GetStorageUsed(userID)
	if err != nil {
		return nil, err
	}
	if used+size > cfg.StorageQuotaByte {
		return nil, apperrors.ErrQuotaExceeded
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	storedName := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(cfg.UploadDir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		s.removeQuietly(path)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if written > cfg.MaxUploadBytes {
		s.removeQuietly(path)
		return nil, apperrors.ErrFileTooLarge
	}

	file := &models.StoredFile{
		UserID:       userID,
		StoredName:   storedName,
		OriginalName: originalName,
		Size:         written,
		Path:         path,
		UploadedAt:   time.Now(),
	}

	if err := s.db.Create(file).Error; err != nil {
		s.removeQuietly(path)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return file, nil
}

// GetUserFiles returns a paginated list of the user's files.
func (s *fileService) GetUserFiles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.StoredFile], error) {
	page.Defaults()

	base := s.db.Model(&models.StoredFile{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var files []models.StoredFile
	if err := base.Order("uploaded_at DESC").Scopes(pagination.Paginate(page)).Find(&files).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(files, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetFileByID returns a file owned by the user.
func (s *fileService) GetFileByID(userID, fileID uint) (*models.StoredFile, error) {
	var file models.StoredFile
	if err := s.db.Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &file, nil
}

// DeleteFile removes a file's metadata row and its bytes on disk. The row
// goes first; a leftover file on disk is recoverable, a dangling row is not.
func (s *fileService) DeleteFile(userID, fileID uint) error {
	file, err := s.GetFileByID(userID, fileID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(file).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.removeQuietly(file.Path)
	return nil
}

// GetStorageUsed returns the total bytes the user has stored.
func (s *fileService) GetStorageUsed(userID uint) (int64, error) {
	var used int64
	err := s.db.Model(&models.StoredFile{}).
		Select("COALESCE(SUM(size), 0)").
		Where("user_id = ?", userID).
		Scan(&used).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return used, nil
}

func (s *fileService) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get().Warnw("failed to remove file", "path", path, "error", err)
	}
}
