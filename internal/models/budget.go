package models

// Budget is a spending ceiling for a project+category pair. The spent figure
// is never stored; reads compute it from matching expenses.
type Budget struct {
	Base
	ProjectID    uint    `gorm:"not null;index" json:"project_id"`
	BudgetAmount float64 `gorm:"not null" json:"budget_amount"`
	Category     string  `gorm:"not null;default:general" json:"category"`
	Status       string  `gorm:"not null;default:active" json:"status"`
}
