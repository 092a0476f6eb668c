package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// invoiceService handles invoice and payment business logic.
type invoiceService struct {
	db *gorm.DB
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB) InvoiceServicer {
	return &invoiceService{db: db}
}

// CreateInvoice creates a new invoice in draft status.
func (s *invoiceService) CreateInvoice(input InvoiceInput) (*models.Invoice, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice amount must be positive")
	}

	var count int64
	s.db.Model(&models.Client{}).Where("id = ?", input.ClientID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrClientNotFound
	}
	if input.ProjectID != nil {
		s.db.Model(&models.Project{}).Where("id = ?", *input.ProjectID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrProjectNotFound
		}
	}

	invoice := &models.Invoice{
		ClientID:      input.ClientID,
		ProjectID:     input.ProjectID,
		InvoiceNumber: fmt.Sprintf("INV-%d", time.Now().UnixMilli()),
		Amount:        input.Amount,
		Status:        models.InvoiceStatusDraft,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		Description:   input.Description,
		Notes:         input.Notes,
	}

	if err := s.db.Create(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return invoice, nil
}

// GetInvoices returns a paginated list of invoices with optional filters.
// Client-role viewers only see invoices billed to clients whose projects
// are assigned to them.
func (s *invoiceService) GetInvoices(viewer Viewer, page pagination.PageRequest, status *models.InvoiceStatus, clientID *uint) (*pagination.PageResponse[models.Invoice], error) {
	page.Defaults()

	base := s.db.Model(&models.Invoice{})
	if viewer.Role == models.RoleClient {
		base = base.Where(
			"client_id IN (?)",
			s.db.Model(&models.Project{}).Select("client_id").Where("assigned_to = ? AND client_id IS NOT NULL", viewer.UserID),
		)
	}
	if status != nil {
		base = base.Where("status = ?", *status)
	}
	if clientID != nil {
		base = base.Where("client_id = ?", *clientID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvoiceByID returns an invoice with its payments.
func (s *invoiceService) GetInvoiceByID(invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Payments").First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// UpdateInvoice applies a sparse update to an invoice.
func (s *invoiceService) UpdateInvoice(invoiceID uint, update InvoiceUpdate) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice amount must be positive")
		}
		updates["amount"] = *update.Amount
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.IssueDate != nil {
		updates["issue_date"] = update.IssueDate
	}
	if update.DueDate != nil {
		updates["due_date"] = update.DueDate
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update")
	}

	if err := s.db.Model(&invoice).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &invoice, nil
}

// SendInvoice marks an invoice as sent to the client. The transition is
// unconditional from any prior status.
func (s *invoiceService) SendInvoice(invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&invoice).Update("status", models.InvoiceStatusSent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// DeleteInvoice removes an invoice and its payments. Only fully paid
// invoices are protected; they are part of the financial record.
func (s *invoiceService) DeleteInvoice(invoiceID uint) error {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvoiceNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return apperrors.ErrInvoicePaid
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.Payment{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&invoice).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// RecordPayment records a payment against an invoice and re-derives the
// invoice status from the cumulative total of all its payments. The payment
// insert and the status update happen in one transaction.
func (s *invoiceService) RecordPayment(invoiceID uint, amount float64, method string, paymentDate *time.Time, confirmationNumber, notes string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be positive")
	}

	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvoiceNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if paymentDate == nil {
			now := time.Now()
			paymentDate = &now
		}

		payment = &models.Payment{
			InvoiceID:          invoiceID,
			Amount:             amount,
			Method:             method,
			Status:             "completed",
			PaymentDate:        paymentDate,
			ConfirmationNumber: confirmationNumber,
			Notes:              notes,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return deriveInvoiceStatus(tx, &invoice)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayments returns a paginated list of all payments, optionally narrowed
// to one client via the owning invoice.
func (s *invoiceService) GetPayments(page pagination.PageRequest, clientID *uint) (*pagination.PageResponse[models.Payment], error) {
	page.Defaults()

	base := s.db.Model(&models.Payment{})
	if clientID != nil {
		base = base.
			Joins("JOIN invoices ON invoices.id = payments.invoice_id").
			Where("invoices.client_id = ?", *clientID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.Payment
	if err := base.Order("payments.created_at DESC").Scopes(pagination.Paginate(page)).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdatePayment applies a sparse update to a payment. Changing the amount
// re-derives the owning invoice's status inside the same transaction.
func (s *invoiceService) UpdatePayment(paymentID uint, update PaymentUpdate) (*models.Payment, error) {
	if update.Amount != nil && *update.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be positive")
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPaymentNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := make(map[string]interface{})
		if update.Amount != nil {
			updates["amount"] = *update.Amount
		}
		if update.Method != nil {
			updates["payment_method"] = *update.Method
		}
		if update.PaymentDate != nil {
			updates["payment_date"] = update.PaymentDate
		}
		if update.ConfirmationNumber != nil {
			updates["confirmation_number"] = *update.ConfirmationNumber
		}
		if update.Notes != nil {
			updates["notes"] = *update.Notes
		}
		if len(updates) == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update")
		}

		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if update.Amount == nil {
			return nil
		}
		var invoice models.Invoice
		if err := tx.First(&invoice, payment.InvoiceID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return deriveInvoiceStatus(tx, &invoice)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentSummary returns the count and total of payments whose payment
// date falls within the given period, a year ("2026") or a year-month
// ("2026-08"). Bucketing happens in Go so the query stays portable across
// the sqlite and postgres drivers.
func (s *invoiceService) GetPaymentSummary(period string) (*PaymentSummary, error) {
	if period == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period is required")
	}

	var payments []models.Payment
	if err := s.db.Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &PaymentSummary{Period: period}
	for _, p := range payments {
		when := p.CreatedAt
		if p.PaymentDate != nil {
			when = *p.PaymentDate
		}
		if !strings.HasPrefix(when.Format("2006-01"), period) {
			continue
		}
		summary.Count++
		summary.Total += p.Amount
	}
	return summary, nil
}

// GetInvoicePayments returns all payments recorded against an invoice.
func (s *invoiceService) GetInvoicePayments(invoiceID uint) ([]models.Payment, error) {
	var count int64
	s.db.Model(&models.Invoice{}).Where("id = ?", invoiceID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrInvoiceNotFound
	}

	var payments []models.Payment
	if err := s.db.Where("invoice_id = ?", invoiceID).Order("payment_date ASC").Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payments, nil
}

// DeletePayment removes a payment and re-derives the invoice status from the
// remaining payments in the same transaction.
func (s *invoiceService) DeletePayment(paymentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPaymentNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var invoice models.Invoice
		if err := tx.First(&invoice, payment.InvoiceID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return deriveInvoiceStatus(tx, &invoice)
	})
}

// deriveInvoiceStatus recomputes an invoice's status from the cumulative sum
// of its payments. Fully covered invoices become paid with a paid date;
// partially covered invoices become partial; uncovered invoices revert to
// sent and the paid date is cleared.
func deriveInvoiceStatus(tx *gorm.DB, invoice *models.Invoice) error {
	var total float64
	err := tx.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ?", invoice.ID).
		Scan(&total).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	switch {
	case total >= invoice.Amount:
		updates["status"] = models.InvoiceStatusPaid
		if invoice.PaidDate == nil {
			now := time.Now()
			updates["paid_date"] = &now
		}
	case total > 0:
		updates["status"] = models.InvoiceStatusPartial
		updates["paid_date"] = nil
	default:
		updates["status"] = models.InvoiceStatusSent
		updates["paid_date"] = nil
	}

	if err := tx.Model(invoice).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
