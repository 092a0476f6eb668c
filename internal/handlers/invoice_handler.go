package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/services"
)

// InvoiceHandler handles invoice and payment requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	auditService   services.AuditServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, auditService services.AuditServicer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, auditService: auditService}
}

// CreateInvoiceRequest represents the request payload for creating an invoice.
type CreateInvoiceRequest struct {
	ClientID    uint       `json:"client_id" binding:"required"`
	ProjectID   *uint      `json:"project_id"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	IssueDate   *time.Time `json:"issue_date"`
	DueDate     *time.Time `json:"due_date"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Notes       string     `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateInvoiceRequest represents the request payload for updating an invoice.
type UpdateInvoiceRequest struct {
	Amount      *float64              `json:"amount" binding:"omitempty,gt=0"`
	Status      *models.InvoiceStatus `json:"status" binding:"omitempty,invoice_status"`
	IssueDate   *time.Time            `json:"issue_date"`
	DueDate     *time.Time            `json:"due_date"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	Notes       *string               `json:"notes" binding:"omitempty,max=2000"`
}

// RecordPaymentRequest represents the request payload for recording a payment.
type RecordPaymentRequest struct {
	Amount             float64    `json:"amount" binding:"required,gt=0"`
	Method             string     `json:"method" binding:"omitempty,payment_method"`
	PaymentDate        *time.Time `json:"payment_date"`
	ConfirmationNumber string     `json:"confirmation_number" binding:"omitempty,max=100"`
	Notes              string     `json:"notes" binding:"omitempty,max=2000"`
}

// CreateInvoice handles the creation of a new invoice.
// @Summary     Create an invoice
// @Description Create a new invoice in draft status
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client or project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(services.InvoiceInput{
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Amount:      req.Amount,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVOICE", map[string]interface{}{
		"invoice_id": invoice.ID, "invoice_number": invoice.InvoiceNumber, "amount": invoice.Amount})

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// GetInvoices handles listing invoices.
// @Summary     List invoices
// @Description Get a paginated list of invoices with optional filters
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status"
// @Param       client_id query int    false "Filter by client"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Invoice] "Paginated invoices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices [get]
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	viewer, err := getViewer(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.InvoiceStatus
	if v := c.Query("status"); v != "" {
		st := models.InvoiceStatus(v)
		switch st {
		case models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusPartial,
			models.InvoiceStatusPaid, models.InvoiceStatusOverdue:
			status = &st
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status filter"))
			return
		}
	}

	clientID, err := parseQueryUint(c, "client_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.invoiceService.GetInvoices(viewer, page, status, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvoice handles retrieving a specific invoice with its payments.
// @Summary     Get invoice by ID
// @Description Get an invoice with its payments
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Invoice details"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// UpdateInvoice handles updating an existing invoice.
// @Summary     Update invoice
// @Description Update an existing invoice
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Invoice ID"
// @Param       request body UpdateInvoiceRequest true "Updated invoice details"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid input or invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(invoiceID, services.InvoiceUpdate{
		Amount:      req.Amount,
		Status:      req.Status,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVOICE", map[string]interface{}{"invoice_id": invoiceID})

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// SendInvoice handles marking an invoice as sent.
// @Summary     Send invoice
// @Description Mark an invoice as sent to the client
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Sent invoice"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/send [put]
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.SendInvoice(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SEND_INVOICE", map[string]interface{}{"invoice_id": invoiceID})

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// DeleteInvoice handles deleting an invoice.
// @Summary     Delete invoice
// @Description Delete an invoice; fully paid invoices cannot be deleted
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} MessageResponse "Invoice deleted"
// @Failure     400 {object} ErrorResponse "Invoice is paid"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invoiceService.DeleteInvoice(invoiceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INVOICE", map[string]interface{}{"invoice_id": invoiceID})

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// RecordPayment handles recording a payment against an invoice.
// @Summary     Record payment
// @Description Record a payment; the invoice status is derived from the cumulative total
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Invoice ID"
// @Param       request body RecordPaymentRequest true "Payment details"
// @Success     201 {object} models.Payment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.invoiceService.RecordPayment(invoiceID, req.Amount, req.Method, req.PaymentDate, req.ConfirmationNumber, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_PAYMENT", map[string]interface{}{
		"invoice_id": invoiceID, "payment_id": payment.ID, "amount": payment.Amount})

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// UpdatePaymentRequest represents the request payload for updating a payment.
type UpdatePaymentRequest struct {
	Amount             *float64   `json:"amount" binding:"omitempty,gt=0"`
	Method             *string    `json:"method" binding:"omitempty,payment_method"`
	PaymentDate        *time.Time `json:"payment_date"`
	ConfirmationNumber *string    `json:"confirmation_number" binding:"omitempty,max=100"`
	Notes              *string    `json:"notes" binding:"omitempty,max=2000"`
}

// GetPayments handles listing all recorded payments.
// @Summary     List payments
// @Description Get a paginated list of payments, optionally filtered by client
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       client_id query int false "Filter by client"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Payment] "Paginated payments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments [get]
func (h *InvoiceHandler) GetPayments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	clientID, err := parseQueryUint(c, "client_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.invoiceService.GetPayments(page, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePayment handles updating a recorded payment.
// @Summary     Update payment
// @Description Update a payment; an amount change re-derives the invoice status
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Payment ID"
// @Param       request body UpdatePaymentRequest true "Updated payment details"
// @Success     200 {object} models.Payment "Updated payment"
// @Failure     400 {object} ErrorResponse "Invalid input or payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [put]
func (h *InvoiceHandler) UpdatePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.invoiceService.UpdatePayment(paymentID, services.PaymentUpdate{
		Amount:             req.Amount,
		Method:             req.Method,
		PaymentDate:        req.PaymentDate,
		ConfirmationNumber: req.ConfirmationNumber,
		Notes:              req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PAYMENT", map[string]interface{}{"payment_id": paymentID})

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GetPaymentSummary handles aggregating payments for one period.
// @Summary     Payment summary
// @Description Get the count and total of payments within a year or year-month period
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string true "Period, e.g. 2026 or 2026-08"
// @Success     200 {object} services.PaymentSummary "Summary"
// @Failure     400 {object} ErrorResponse "Missing period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/summary [get]
func (h *InvoiceHandler) GetPaymentSummary(c *gin.Context) {
	summary, err := h.invoiceService.GetPaymentSummary(c.Query("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetInvoicePayments handles listing payments for an invoice.
// @Summary     List invoice payments
// @Description Get all payments recorded against an invoice
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {array} models.Payment "Payments"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/payments [get]
func (h *InvoiceHandler) GetInvoicePayments(c *gin.Context) {
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.invoiceService.GetInvoicePayments(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// DeletePayment handles deleting a recorded payment.
// @Summary     Delete payment
// @Description Delete a payment; the invoice status is re-derived from the remaining payments
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Payment ID"
// @Success     200 {object} MessageResponse "Payment deleted"
// @Failure     400 {object} ErrorResponse "Invalid payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [delete]
func (h *InvoiceHandler) DeletePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	paymentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invoiceService.DeletePayment(paymentID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PAYMENT", map[string]interface{}{"payment_id": paymentID})

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
