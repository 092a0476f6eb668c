package models

import "time"

// StoredFile is an uploaded file owned by a user. StoredName is the
// uuid-based name on disk; OriginalName is what the user uploaded.
type StoredFile struct {
	Base
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	StoredName   string    `gorm:"not null" json:"stored_name"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	Size         int64     `gorm:"not null" json:"size"`
	Path         string    `gorm:"not null" json:"-"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
