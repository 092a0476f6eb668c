package models

import "time"

// TaskStatus tracks a task through the kanban columns.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task is an internal work item within a project.
// CompletedAt is stamped only when status transitions to completed.
type Task struct {
	Base
	ProjectID      uint       `gorm:"not null;index" json:"project_id"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `gorm:"not null;default:todo" json:"status"`
	Priority       Priority   `gorm:"not null;default:medium" json:"priority"`
	AssignedTo     *uint      `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
