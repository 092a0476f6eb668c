package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/pagination"
	"studiohub/internal/services"
)

// BackupHandler handles manual file backup requests.
type BackupHandler struct {
	backupService services.BackupServicer
	auditService  services.AuditServicer
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService services.BackupServicer, auditService services.AuditServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService, auditService: auditService}
}

// CreateBackupRequest represents the request payload for backing up a file.
type CreateBackupRequest struct {
	FileID uint `json:"file_id" binding:"required"`
}

// CreateBackup handles creating a backup copy of a stored file.
// @Summary     Back up a file
// @Description Copy a stored file into the backup area
// @Tags        backups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBackupRequest true "File to back up"
// @Success     201 {object} models.Backup "Backup created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "File not found"
// @Failure     500 {object} ErrorResponse "Backup failed"
// @Router      /backups [post]
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	backup, err := h.backupService.CreateBackup(userID, req.FileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BACKUP", map[string]interface{}{
		"backup_id": backup.ID, "file_id": req.FileID})

	c.JSON(http.StatusCreated, gin.H{"backup": backup})
}

// GetBackups handles listing the authenticated user's backups.
// @Summary     List backups
// @Description Get a paginated list of the authenticated user's backups
// @Tags        backups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Backup] "Paginated backups"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /backups [get]
func (h *BackupHandler) GetBackups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.backupService.GetUserBackups(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAllBackups handles listing every user's backups for administrators.
// @Summary     List all backups
// @Description Get a paginated list of backups across all users
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Backup] "Paginated backups"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/backups [get]
func (h *BackupHandler) GetAllBackups(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.backupService.GetAllBackups(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBackup handles deleting a backup.
// @Summary     Delete backup
// @Description Delete a backup and its copy on disk
// @Tags        backups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Backup ID"
// @Success     200 {object} MessageResponse "Backup deleted"
// @Failure     400 {object} ErrorResponse "Invalid backup ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Backup not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /backups/{id} [delete]
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	backupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.backupService.DeleteBackup(userID, backupID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BACKUP", map[string]interface{}{"backup_id": backupID})

	c.JSON(http.StatusOK, gin.H{"message": "Backup deleted successfully"})
}
