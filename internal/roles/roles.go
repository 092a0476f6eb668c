// Package roles defines the permission model for each user role.
// Authorization decisions are made against these permission lists,
// never against individual user identities.
package roles

import "studiohub/internal/models"

// Permission names granted to roles.
const (
	PermManageAll       = "manage-all"
	PermManageUsers     = "manage-users"
	PermManageProjects  = "manage-projects"
	PermManageClients   = "manage-clients"
	PermManageInvoices  = "manage-invoices"
	PermManageTeam      = "manage-team"
	PermManageSettings  = "manage-settings"
	PermAssignTasks     = "assign-tasks"
	PermUpdateTasks     = "update-tasks"
	PermViewProjects    = "view-projects"
	PermViewReports     = "view-reports"
	PermViewInvoices    = "view-invoices"
	PermViewAuditLogs   = "view-audit-logs"
	PermComment         = "comment"
	PermApproveDelivery = "approve-deliverables"
)

// Definition describes a role and the permissions it grants.
type Definition struct {
	ID          models.Role `json:"id"`
	Name        string      `json:"name"`
	Permissions []string    `json:"permissions"`
}

var definitions = []Definition{
	{
		ID:   models.RoleAdmin,
		Name: "Administrator",
		Permissions: []string{
			PermManageAll, PermManageUsers, PermManageProjects, PermManageClients,
			PermManageInvoices, PermViewReports, PermManageSettings, PermViewAuditLogs,
		},
	},
	{
		ID:   models.RoleManager,
		Name: "Project Manager",
		Permissions: []string{
			PermManageProjects, PermManageTeam, PermAssignTasks, PermUpdateTasks,
			PermViewProjects, PermViewReports, PermManageClients,
			PermManageInvoices, PermViewInvoices,
		},
	},
	{
		ID:   models.RoleTeamMember,
		Name: "Team Member",
		Permissions: []string{
			PermViewProjects, PermUpdateTasks, PermComment, PermViewReports,
		},
	},
	{
		ID:   models.RoleClient,
		Name: "Client",
		Permissions: []string{
			PermViewProjects, PermComment, PermApproveDelivery, PermViewInvoices,
		},
	},
	{
		ID:   models.RoleGuest,
		Name: "Guest",
		Permissions: []string{
			PermViewProjects, PermComment,
		},
	},
}

// All returns the definitions of every known role.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Permissions returns the permission list for a role, or false if the role
// is unknown.
func Permissions(role models.Role) ([]string, bool) {
	for _, d := range definitions {
		if d.ID == role {
			perms := make([]string, len(d.Permissions))
			copy(perms, d.Permissions)
			return perms, true
		}
	}
	return nil, false
}

// Has reports whether the role grants the given permission.
// The manage-all permission implies every other permission.
func Has(role models.Role, permission string) bool {
	perms, ok := Permissions(role)
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == PermManageAll || p == permission {
			return true
		}
	}
	return false
}

// Valid reports whether the role is one of the known roles.
func Valid(role models.Role) bool {
	_, ok := Permissions(role)
	return ok
}
