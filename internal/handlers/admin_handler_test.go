package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/services"
)

type mockAdminService struct {
	listUsersFn        func(page pagination.PageRequest, status *models.UserStatus) (*pagination.PageResponse[models.User], error)
	listPendingUsersFn func() ([]models.User, error)
	approveUserFn      func(userID uint) (*models.User, error)
	rejectUserFn       func(userID uint) error
	deleteUserFn       func(userID uint) error
	assignRoleFn       func(userID uint, role models.Role) (*models.User, error)
	storageStatsFn     func() ([]services.UserStorageStat, error)
}

var _ services.AdminServicer = (*mockAdminService)(nil)

func (m *mockAdminService) ListUsers(page pagination.PageRequest, status *models.UserStatus) (*pagination.PageResponse[models.User], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(page, status)
	}
	page.Defaults()
	result := pagination.NewPageResponse([]models.User{}, page.Page, page.PageSize, 0)
	return &result, nil
}

func (m *mockAdminService) ListPendingUsers() ([]models.User, error) {
	if m.listPendingUsersFn != nil {
		return m.listPendingUsersFn()
	}
	return []models.User{}, nil
}

func (m *mockAdminService) ApproveUser(userID uint) (*models.User, error) {
	if m.approveUserFn != nil {
		return m.approveUserFn(userID)
	}
	return &models.User{}, nil
}

func (m *mockAdminService) RejectUser(userID uint) error {
	if m.rejectUserFn != nil {
		return m.rejectUserFn(userID)
	}
	return nil
}

func (m *mockAdminService) DeleteUser(userID uint) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(userID)
	}
	return nil
}

func (m *mockAdminService) AssignRole(userID uint, role models.Role) (*models.User, error) {
	if m.assignRoleFn != nil {
		return m.assignRoleFn(userID, role)
	}
	return &models.User{}, nil
}

func (m *mockAdminService) GetStorageStats() ([]services.UserStorageStat, error) {
	if m.storageStatsFn != nil {
		return m.storageStatsFn()
	}
	return []services.UserStorageStat{}, nil
}

func setupAdminRouter(handler *AdminHandler) *gin.Engine {
	r := gin.New()
	admin := r.Group("/admin", injectUserID(1))
	admin.GET("/users", handler.GetUsers)
	admin.GET("/users/pending", handler.GetPendingUsers)
	admin.PUT("/users/:id/approve", handler.ApproveUser)
	admin.DELETE("/users/:id/reject", handler.RejectUser)
	admin.DELETE("/users/:id", handler.DeleteUser)
	admin.PUT("/users/:id/role", handler.AssignRole)
	admin.GET("/roles", handler.GetRoles)
	admin.GET("/roles/:role/permissions", handler.GetRolePermissions)
	admin.GET("/storage-stats", handler.GetStorageStats)
	return r
}

func TestAdminHandler_GetUsers(t *testing.T) {
	t.Run("returns 200 with page", func(t *testing.T) {
		adminSvc := &mockAdminService{
			listUsersFn: func(page pagination.PageRequest, _ *models.UserStatus) (*pagination.PageResponse[models.User], error) {
				page.Defaults()
				result := pagination.NewPageResponse([]models.User{
					{Base: models.Base{ID: 1}, Username: "alice"},
				}, page.Page, page.PageSize, 1)
				return &result, nil
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/users", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 total item, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on bad status filter", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/users?status=banana", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes status filter to service", func(t *testing.T) {
		var got *models.UserStatus
		adminSvc := &mockAdminService{
			listUsersFn: func(page pagination.PageRequest, status *models.UserStatus) (*pagination.PageResponse[models.User], error) {
				got = status
				page.Defaults()
				result := pagination.NewPageResponse([]models.User{}, page.Page, page.PageSize, 0)
				return &result, nil
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		doRequest(r, "GET", "/admin/users?status=pending", "")

		if got == nil || *got != models.UserStatusPending {
			t.Errorf("expected pending filter, got %v", got)
		}
	})
}

func TestAdminHandler_ApproveUser(t *testing.T) {
	t.Run("returns 200 and notifies the user", func(t *testing.T) {
		var notified uint
		notifSvc := &mockNotificationService{
			notifyFn: func(userID uint, _, _, _ string, _ *uint, _ string) error {
				notified = userID
				return nil
			},
		}
		adminSvc := &mockAdminService{
			approveUserFn: func(userID uint) (*models.User, error) {
				return &models.User{Base: models.Base{ID: userID}, Status: models.UserStatusApproved}, nil
			},
		}
		handler := NewAdminHandler(adminSvc, notifSvc, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/7/approve", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if notified != 7 {
			t.Errorf("expected user 7 to be notified, got %d", notified)
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["status"] != "approved" {
			t.Errorf("expected approved, got %v", user["status"])
		}
	})

	t.Run("returns 404 on unknown user", func(t *testing.T) {
		adminSvc := &mockAdminService{
			approveUserFn: func(_ uint) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/9999/approve", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})

	t.Run("returns 400 on bad id", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/abc/approve", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminHandler_RejectUser(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "DELETE", "/admin/users/7/reject", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 on unknown user", func(t *testing.T) {
		adminSvc := &mockAdminService{
			rejectUserFn: func(_ uint) error { return apperrors.ErrUserNotFound },
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "DELETE", "/admin/users/9999/reject", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deleted uint
		adminSvc := &mockAdminService{
			deleteUserFn: func(userID uint) error {
				deleted = userID
				return nil
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "DELETE", "/admin/users/7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if deleted != 7 {
			t.Errorf("expected user 7 to be deleted, got %d", deleted)
		}
	})

	t.Run("returns 403 for administrator accounts", func(t *testing.T) {
		adminSvc := &mockAdminService{
			deleteUserFn: func(_ uint) error {
				return apperrors.WithMessage(apperrors.ErrForbidden, "administrator accounts cannot be deleted")
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "DELETE", "/admin/users/1", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestAdminHandler_GetStorageStats(t *testing.T) {
	t.Run("returns 200 with stats", func(t *testing.T) {
		adminSvc := &mockAdminService{
			storageStatsFn: func() ([]services.UserStorageStat, error) {
				return []services.UserStorageStat{
					{UserID: 1, Username: "alice", FileCount: 2, BytesUsed: 2048, QuotaBytes: 1 << 20},
				}, nil
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/storage-stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		stats := parseJSON(t, rec)["stats"].([]interface{})
		if len(stats) != 1 {
			t.Fatalf("expected 1 stat entry, got %d", len(stats))
		}
		entry := stats[0].(map[string]interface{})
		if entry["bytes_used"].(float64) != 2048 {
			t.Errorf("expected 2048 bytes used, got %v", entry["bytes_used"])
		}
	})
}

func TestAdminHandler_AssignRole(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		adminSvc := &mockAdminService{
			assignRoleFn: func(userID uint, role models.Role) (*models.User, error) {
				return &models.User{Base: models.Base{ID: userID}, Role: role}, nil
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/7/role", `{"role":"manager"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["role"] != "manager" {
			t.Errorf("expected manager, got %v", user["role"])
		}
	})

	t.Run("returns 400 on unknown role", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/7/role", `{"role":"overlord"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when demoting the last admin", func(t *testing.T) {
		adminSvc := &mockAdminService{
			assignRoleFn: func(_ uint, _ models.Role) (*models.User, error) {
				return nil, apperrors.ErrLastAdmin
			},
		}
		handler := NewAdminHandler(adminSvc, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "PUT", "/admin/users/1/role", `{"role":"team-member"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "LAST_ADMIN")
	})
}

func TestAdminHandler_GetRolePermissions(t *testing.T) {
	t.Run("returns 200 for known role", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/roles/admin/permissions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		perms, ok := result["permissions"].([]interface{})
		if !ok || len(perms) == 0 {
			t.Errorf("expected non-empty permission list, got %v", result["permissions"])
		}
	})

	t.Run("returns 404 for unknown role", func(t *testing.T) {
		handler := NewAdminHandler(&mockAdminService{}, &mockNotificationService{}, &mockAuditService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/roles/overlord/permissions", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
