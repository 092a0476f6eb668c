package models

import "time"

// InvoiceStatus is the invoice lifecycle state. The overdue value is part of
// the vocabulary and reachable through updates, but no automated sweep
// assigns it.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice bills a client for an optional project.
type Invoice struct {
	Base
	ProjectID     *uint         `json:"project_id,omitempty"`
	ClientID      uint          `gorm:"not null;index" json:"client_id"`
	InvoiceNumber string        `gorm:"uniqueIndex;not null" json:"invoice_number"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Status        InvoiceStatus `gorm:"not null;default:draft" json:"status"`
	IssueDate     *time.Time    `json:"issue_date,omitempty"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	Description   string        `json:"description,omitempty"`
	Notes         string        `json:"notes,omitempty"`

	Payments []Payment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}
