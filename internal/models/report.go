package models

import "time"

// FinancialReport is a persisted snapshot of a generated report.
// Data holds the raw aggregate row as JSON.
type FinancialReport struct {
	Base
	ReportType    string     `gorm:"not null" json:"report_type"`
	Period        string     `json:"period,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	TotalRevenue  float64    `gorm:"default:0" json:"total_revenue"`
	TotalExpenses float64    `gorm:"default:0" json:"total_expenses"`
	Profit        float64    `gorm:"default:0" json:"profit"`
	TaxAmount     float64    `gorm:"default:0" json:"tax_amount"`
	ProjectCount  int        `gorm:"default:0" json:"project_count"`
	ClientCount   int        `gorm:"default:0" json:"client_count"`
	Data          string     `json:"data,omitempty"`
	CreatedBy     uint       `json:"created_by"`
}
