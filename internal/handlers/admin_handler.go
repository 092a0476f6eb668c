package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/roles"
	"studiohub/internal/services"
)

// AdminHandler handles user administration requests.
type AdminHandler struct {
	adminService        services.AdminServicer
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer, notificationService services.NotificationServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

// AssignRoleRequest represents the role assignment payload.
type AssignRoleRequest struct {
	Role models.Role `json:"role" binding:"required,user_role"`
}

// GetUsers handles listing all users.
// @Summary     List users
// @Description Get a paginated list of users, optionally filtered by status
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (pending/approved)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.User] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users [get]
func (h *AdminHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.UserStatus
	if v := c.Query("status"); v != "" {
		st := models.UserStatus(v)
		if st != models.UserStatusPending && st != models.UserStatusApproved {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'pending' or 'approved'"))
			return
		}
		status = &st
	}

	result, err := h.adminService.ListUsers(page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPendingUsers handles listing accounts awaiting approval.
// @Summary     List pending users
// @Description Get every account awaiting approval
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.User "Pending users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/pending [get]
func (h *AdminHandler) GetPendingUsers(c *gin.Context) {
	users, err := h.adminService.ListPendingUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ApproveUser handles approving a pending account.
// @Summary     Approve user
// @Description Approve a pending account so it can log in
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} models.User "Approved user"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/approve [put]
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.adminService.ApproveUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "APPROVE_USER", map[string]interface{}{"user_id": userID})

	if err := h.notificationService.Notify(userID, "account", "Account approved",
		"Your account has been approved. You can now log in.", nil, ""); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RejectUser handles rejecting a pending account.
// @Summary     Reject user
// @Description Reject and permanently remove a pending account
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} MessageResponse "User rejected"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/reject [delete]
func (h *AdminHandler) RejectUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.RejectUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "REJECT_USER", map[string]interface{}{"user_id": userID})

	c.JSON(http.StatusOK, gin.H{"message": "User rejected"})
}

// DeleteUser handles deleting an approved account and everything it owns.
// @Summary     Delete user
// @Description Delete an account with its files, backups and logs; administrators cannot be deleted
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} MessageResponse "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Administrator account"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_USER", map[string]interface{}{"user_id": userID})

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// GetStorageStats handles listing per-user storage consumption.
// @Summary     Storage statistics
// @Description Get every user's storage consumption against the quota
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.UserStorageStat "Per-user storage stats"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/storage-stats [get]
func (h *AdminHandler) GetStorageStats(c *gin.Context) {
	stats, err := h.adminService.GetStorageStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// AssignRole handles changing a user's role.
// @Summary     Assign role
// @Description Change a user's role; the last admin cannot be demoted
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "User ID"
// @Param       request body AssignRoleRequest true "New role"
// @Success     200 {object} models.User "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid role or last admin"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/users/{id}/role [put]
func (h *AdminHandler) AssignRole(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.adminService.AssignRole(userID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "ASSIGN_ROLE", map[string]interface{}{"user_id": userID, "role": req.Role})

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetRoles handles listing the available roles and their permissions.
// @Summary     List roles
// @Description Get every role definition with its permission list
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} roles.Definition "Role definitions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Router      /admin/roles [get]
func (h *AdminHandler) GetRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": roles.All()})
}

// GetRolePermissions handles retrieving the permission list for one role.
// @Summary     Get role permissions
// @Description Get the permission list for a single role
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       role path string true "Role name"
// @Success     200 {array} string "Permissions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Role not found"
// @Router      /admin/roles/{role}/permissions [get]
func (h *AdminHandler) GetRolePermissions(c *gin.Context) {
	role := models.Role(c.Param("role"))
	perms, ok := roles.Permissions(role)
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Role not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role, "permissions": perms})
}

// GetAuditLogs handles listing audit log entries.
// @Summary     List audit logs
// @Description Get a paginated list of audit entries, optionally filtered by user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       user_id   query int false "Filter by user ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/audit-logs [get]
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.auditService.GetLogs(page, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
