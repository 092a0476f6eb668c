package models

import "time"

// Backup records a manual copy of a stored file. The copy and the metadata
// row are written as one operation; a failed copy leaves no row.
type Backup struct {
	Base
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	FileID      uint       `gorm:"not null" json:"file_id"`
	FileName    string     `gorm:"not null" json:"file_name"`
	BackupPath  string     `gorm:"not null" json:"-"`
	Size        int64      `json:"size"`
	Status      string     `gorm:"not null;default:completed" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
