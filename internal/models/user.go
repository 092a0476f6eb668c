package models

// Role is the fixed set of roles a user may hold.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team-member"
	RoleClient     Role = "client"
	RoleGuest      Role = "guest"
)

// UserStatus is the registration approval state.
// Rejection deletes the row; there is no terminal rejected status.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
)

// User represents a registered account awaiting or holding approval.
// Password is empty for federated (Google) sign-ins.
type User struct {
	Base
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `json:"-"`
	GoogleID   *string    `gorm:"uniqueIndex" json:"-"`
	ProfilePic string     `json:"profile_pic,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	Role       Role       `gorm:"not null;default:team-member" json:"role"`
	Status     UserStatus `gorm:"not null;default:pending" json:"status"`
}
