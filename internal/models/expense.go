package models

import "time"

// Expense is a cost booked against a project under a category.
// The category string links expenses to budgets at read time.
type Expense struct {
	Base
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Category    string     `gorm:"not null" json:"category"`
	Description string     `json:"description,omitempty"`
	Amount      float64    `gorm:"not null" json:"amount"`
	ExpenseDate *time.Time `json:"expense_date,omitempty"`
	Vendor      string     `json:"vendor,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `gorm:"not null;default:recorded" json:"status"`
	CreatedBy   uint       `json:"created_by"`
}
