package services

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"studiohub/internal/config"
	apperrors "studiohub/internal/errors"
	"studiohub/internal/logger"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/roles"
)

// adminService handles user administration: approvals and role assignment.
type adminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB) AdminServicer {
	return &adminService{db: db}
}

// ListUsers returns a paginated list of users, optionally filtered by status.
func (s *adminService) ListUsers(page pagination.PageRequest, status *models.UserStatus) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListPendingUsers returns every account awaiting approval.
func (s *adminService) ListPendingUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("status = ?", models.UserStatusPending).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// ApproveUser moves a pending account to approved status.
func (s *adminService) ApproveUser(userID uint) (*models.User, error) {
	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	if user.Status != models.UserStatusApproved {
		if err := s.db.Model(user).Update("status", models.UserStatusApproved).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return user, nil
}

// RejectUser deletes a pending account. Rejection is permanent; the user may
// register again with the same email afterwards.
func (s *adminService) RejectUser(userID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteUser removes an approved account together with everything it owns:
// stored files, backups, notifications and audit entries. Administrator
// accounts cannot be deleted; demote them first. The rows go in one
// transaction, then the files on disk are cleaned up best-effort.
func (s *adminService) DeleteUser(userID uint) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return apperrors.WithMessage(apperrors.ErrForbidden, "administrator accounts cannot be deleted")
	}

	var filePaths []string
	if err := s.db.Model(&models.StoredFile{}).
		Where("user_id = ?", userID).
		Pluck("path", &filePaths).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var backupPaths []string
	if err := s.db.Model(&models.Backup{}).
		Where("user_id = ?", userID).
		Pluck("backup_path", &backupPaths).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Backup{}, &models.StoredFile{}, &models.Notification{}, &models.AuditLog{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Delete(user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range append(filePaths, backupPaths...) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Get().Warnw("failed to remove file of deleted user", "path", path, "error", err)
		}
	}
	return nil
}

// GetStorageStats returns per-user storage consumption against the quota.
func (s *adminService) GetStorageStats() ([]UserStorageStat, error) {
	var stats []UserStorageStat
	err := s.db.Model(&models.User{}).
		Select("users.id AS user_id, users.username, COUNT(stored_files.id) AS file_count, COALESCE(SUM(stored_files.size), 0) AS bytes_used").
		Joins("LEFT JOIN stored_files ON stored_files.user_id = users.id").
		Group("users.id, users.username").
		Order("users.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	quota := config.Get().StorageQuotaByte
	for i := range stats {
		stats[i].QuotaBytes = quota
	}
	return stats, nil
}

// AssignRole changes a user's role. Demoting the last remaining
// administrator is refused.
func (s *adminService) AssignRole(userID uint, role models.Role) (*models.User, error) {
	if !roles.Valid(role) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid role")
	}

	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleAdmin && role != models.RoleAdmin {
		var admins int64
		if err := s.db.Model(&models.User{}).
			Where("role = ? AND id != ?", models.RoleAdmin, userID).
			Count(&admins).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if admins == 0 {
			return nil, apperrors.ErrLastAdmin
		}
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

func (s *adminService) getUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
