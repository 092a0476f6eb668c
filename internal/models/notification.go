package models

// Notification is a per-user event record. Append-only except for the read
// flag.
type Notification struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Type        string `gorm:"not null" json:"type"`
	Title       string `gorm:"not null" json:"title"`
	Message     string `json:"message,omitempty"`
	RelatedID   *uint  `json:"related_id,omitempty"`
	RelatedType string `json:"related_type,omitempty"`
	IsRead      bool   `gorm:"not null;default:false" json:"is_read"`
}
