package models

import "time"

// Payment records money received against an invoice. An invoice may have
// several payments; status derivation always sums all of them.
type Payment struct {
	Base
	InvoiceID          uint       `gorm:"not null;index" json:"invoice_id"`
	Amount             float64    `gorm:"not null" json:"amount"`
	Method             string     `gorm:"column:payment_method" json:"payment_method"`
	Status             string     `gorm:"not null;default:completed" json:"status"`
	PaymentDate        *time.Time `json:"payment_date,omitempty"`
	ConfirmationNumber string     `json:"confirmation_number,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}
