package roles

import (
	"testing"

	"studiohub/internal/models"
)

func TestHas(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		permission string
		want       bool
	}{
		{"admin_has_manage_users", models.RoleAdmin, PermManageUsers, true},
		{"manage_all_implies_update_tasks", models.RoleAdmin, PermUpdateTasks, true},
		{"manager_has_manage_clients", models.RoleManager, PermManageClients, true},
		{"team_member_cannot_manage_users", models.RoleTeamMember, PermManageUsers, false},
		{"client_can_approve_deliverables", models.RoleClient, PermApproveDelivery, true},
		{"guest_can_view_projects", models.RoleGuest, PermViewProjects, true},
		{"guest_cannot_view_reports", models.RoleGuest, PermViewReports, false},
		{"unknown_role_has_nothing", models.Role("overlord"), PermComment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.role, tt.permission); got != tt.want {
				t.Errorf("Has(%s, %s) = %v, want %v", tt.role, tt.permission, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleManager, models.RoleTeamMember, models.RoleClient, models.RoleGuest} {
		if !Valid(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	if Valid(models.Role("overlord")) {
		t.Error("expected unknown role to be invalid")
	}
}
