package models

// Client represents a studio client that projects and invoices bill against.
type Client struct {
	Base
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
	Status  string `gorm:"not null;default:active" json:"status"`

	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}
