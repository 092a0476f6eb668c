package models

import "time"

// DeliverableStatus tracks the client approval workflow.
type DeliverableStatus string

const (
	DeliverableStatusPending   DeliverableStatus = "pending"
	DeliverableStatusSubmitted DeliverableStatus = "submitted"
	DeliverableStatusApproved  DeliverableStatus = "approved"
	DeliverableStatusRejected  DeliverableStatus = "rejected"
)

// Deliverable is a client-facing work item that requires explicit approval,
// distinct from an internal Task.
type Deliverable struct {
	Base
	ProjectID            uint              `gorm:"not null;index" json:"project_id"`
	Title                string            `gorm:"not null" json:"title"`
	Description          string            `json:"description,omitempty"`
	Status               DeliverableStatus `gorm:"not null;default:pending" json:"status"`
	DueDate              *time.Time        `json:"due_date,omitempty"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date,omitempty"`
	SubmissionDate       *time.Time        `json:"submission_date,omitempty"`
	SubmissionNotes      string            `json:"submission_notes,omitempty"`
	ApprovalDate         *time.Time        `json:"approval_date,omitempty"`
	ApprovalNotes        string            `json:"approval_notes,omitempty"`
	RejectionDate        *time.Time        `json:"rejection_date,omitempty"`
	RejectionReason      string            `json:"rejection_reason,omitempty"`
}
