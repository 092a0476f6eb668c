package models

// MessageType distinguishes plain messages from approval and update notes
// in a project thread.
type MessageType string

const (
	MessageTypeMessage  MessageType = "message"
	MessageTypeApproval MessageType = "approval"
	MessageTypeUpdate   MessageType = "update"
)

// Message is a communication between users, optionally tied to a project or
// client. Append-only except for the read flag.
type Message struct {
	Base
	SenderID    uint        `gorm:"not null;index" json:"sender_id"`
	RecipientID *uint       `gorm:"index" json:"recipient_id,omitempty"`
	ProjectID   *uint       `gorm:"index" json:"project_id,omitempty"`
	ClientID    *uint       `json:"client_id,omitempty"`
	Subject     string      `json:"subject,omitempty"`
	Content     string      `gorm:"not null" json:"content"`
	Type        MessageType `gorm:"not null;default:message" json:"type"`
	IsRead      bool        `gorm:"not null;default:false" json:"is_read"`
}
