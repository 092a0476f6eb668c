package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/pagination"
	"studiohub/internal/services"
)

// FileHandler handles file storage requests.
type FileHandler struct {
	fileService  services.FileServicer
	auditService services.AuditServicer
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService services.FileServicer, auditService services.AuditServicer) *FileHandler {
	return &FileHandler{fileService: fileService, auditService: auditService}
}

// UploadFile handles a multipart file upload.
// @Summary     Upload a file
// @Description Upload a file; rejected when it exceeds the size limit or the user storage quota
// @Tags        files
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "File to upload"
// @Success     201 {object} models.StoredFile "File stored"
// @Failure     400 {object} ErrorResponse "Missing or invalid file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     413 {object} ErrorResponse "File too large or quota exceeded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer src.Close()

	file, err := h.fileService.SaveFile(userID, fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_FILE", map[string]interface{}{
		"file_id": file.ID, "name": file.OriginalName, "size": file.Size})

	c.JSON(http.StatusCreated, gin.H{"file": file})
}

// GetFiles handles listing the authenticated user's files.
// @Summary     List files
// @Description Get a paginated list of the authenticated user's stored files
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.StoredFile] "Paginated files"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /files [get]
func (h *FileHandler) GetFiles(c *gin.Context) {
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

	result, err := h.fileService.GetUserFiles(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DownloadFile handles downloading a stored file.
// @Summary     Download a file
// @Description Download a stored file under its original name
// @Tags        files
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       id path int true "File ID"
// @Success     200 {file} binary "File content"
// @Failure     400 {object} ErrorResponse "Invalid file ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "File not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /files/{id}/download [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.fileService.GetFileByID(userID, fileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.FileAttachment(file.Path, file.OriginalName)
}

// DeleteFile handles deleting a stored file.
// @Summary     Delete file
// @Description Delete a stored file and reclaim its quota
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "File ID"
// @Success     200 {object} MessageResponse "File deleted"
// @Failure     400 {object} ErrorResponse "Invalid file ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "File not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fileService.DeleteFile(userID, fileID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_FILE", map[string]interface{}{"file_id": fileID})

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// GetStorageUsage handles reporting the user's storage consumption.
// @Summary     Storage usage
// @Description Get the total bytes stored by the authenticated user
// @Tags        files
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Bytes used"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /files/usage [get]
func (h *FileHandler) GetStorageUsage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	used, err := h.fileService.GetStorageUsed(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bytes_used": used})
}
