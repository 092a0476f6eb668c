package models

import "time"

// ProjectStatus tracks a project's delivery phase.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

// Priority is shared by projects and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Project is a unit of client work with an owning creator and optional assignee.
type Project struct {
	Base
	ClientID    *uint         `json:"client_id,omitempty"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `gorm:"not null;default:planning" json:"status"`
	Priority    Priority      `gorm:"not null;default:medium" json:"priority"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Budget      float64       `gorm:"default:0" json:"budget"`
	Spent       float64       `gorm:"default:0" json:"spent"`
	AssignedTo  *uint         `json:"assigned_to,omitempty"`
	CreatedBy   uint          `gorm:"not null" json:"created_by"`
	Progress    int           `gorm:"default:0" json:"progress"`

	Tasks        []Task        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Deliverables []Deliverable `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`
}
