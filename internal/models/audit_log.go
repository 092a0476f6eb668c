package models

// AuditLog is an append-only record of a privileged or user-visible action.
type AuditLog struct {
	Base
	UserID  uint   `gorm:"index" json:"user_id"`
	Action  string `gorm:"not null" json:"action"`
	Details string `json:"details,omitempty"`
}
