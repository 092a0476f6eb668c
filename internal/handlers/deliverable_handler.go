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

// DeliverableHandler handles deliverable review workflow requests.
type DeliverableHandler struct {
	deliverableService services.DeliverableServicer
	auditService       services.AuditServicer
}

// NewDeliverableHandler creates a new DeliverableHandler.
func NewDeliverableHandler(deliverableService services.DeliverableServicer, auditService services.AuditServicer) *DeliverableHandler {
	return &DeliverableHandler{deliverableService: deliverableService, auditService: auditService}
}

// CreateDeliverableRequest represents the request payload for creating a deliverable.
type CreateDeliverableRequest struct {
	Title                string     `json:"title" binding:"required,min=1,max=255"`
	Description          string     `json:"description" binding:"omitempty,max=2000"`
	DueDate              *time.Time `json:"due_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// SubmitDeliverableRequest represents the submission payload.
type SubmitDeliverableRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// ApproveDeliverableRequest represents the approval payload.
type ApproveDeliverableRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// RejectDeliverableRequest represents the rejection payload.
type RejectDeliverableRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=2000"`
}

// CreateDeliverable handles the creation of a new deliverable.
// @Summary     Create a deliverable
// @Description Create a new deliverable under a project
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Project ID"
// @Param       request body CreateDeliverableRequest true "Deliverable details"
// @Success     201 {object} models.Deliverable "Deliverable created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/deliverables [post]
func (h *DeliverableHandler) CreateDeliverable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deliverable, err := h.deliverableService.CreateDeliverable(projectID, req.Title, req.Description, req.DueDate, req.ExpectedDeliveryDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DELIVERABLE", map[string]interface{}{"deliverable_id": deliverable.ID, "project_id": projectID})

	c.JSON(http.StatusCreated, gin.H{"deliverable": deliverable})
}

// GetProjectDeliverables handles listing deliverables under a project.
// @Summary     List project deliverables
// @Description Get a paginated list of deliverables for a project
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int    true  "Project ID"
// @Param       status    query string false "Filter by status"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Deliverable] "Paginated deliverables"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/deliverables [get]
func (h *DeliverableHandler) GetProjectDeliverables(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.DeliverableStatus
	if v := c.Query("status"); v != "" {
		st := models.DeliverableStatus(v)
		switch st {
		case models.DeliverableStatusPending, models.DeliverableStatusSubmitted,
			models.DeliverableStatusApproved, models.DeliverableStatusRejected:
			status = &st
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status filter"))
			return
		}
	}

	result, err := h.deliverableService.GetProjectDeliverables(projectID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDeliverable handles retrieving a specific deliverable.
// @Summary     Get deliverable by ID
// @Description Get a specific deliverable by ID
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deliverable ID"
// @Success     200 {object} models.Deliverable "Deliverable details"
// @Failure     400 {object} ErrorResponse "Invalid deliverable ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deliverable not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deliverables/{id} [get]
func (h *DeliverableHandler) GetDeliverable(c *gin.Context) {
	deliverableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deliverable, err := h.deliverableService.GetDeliverableByID(deliverableID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliverable": deliverable})
}

// SubmitDeliverable handles marking a deliverable as submitted for review.
// @Summary     Submit deliverable
// @Description Mark a deliverable as submitted for client review
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Deliverable ID"
// @Param       request body SubmitDeliverableRequest true "Submission notes"
// @Success     200 {object} models.Deliverable "Submitted deliverable"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deliverable not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deliverables/{id}/submit [put]
func (h *DeliverableHandler) SubmitDeliverable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deliverableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deliverable, err := h.deliverableService.SubmitDeliverable(deliverableID, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SUBMIT_DELIVERABLE", map[string]interface{}{"deliverable_id": deliverableID})

	c.JSON(http.StatusOK, gin.H{"deliverable": deliverable})
}

// ApproveDeliverable handles approving a submitted deliverable.
// @Summary     Approve deliverable
// @Description Approve a submitted deliverable
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Deliverable ID"
// @Param       request body ApproveDeliverableRequest true "Approval notes"
// @Success     200 {object} models.Deliverable "Approved deliverable"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deliverable not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deliverables/{id}/approve [put]
func (h *DeliverableHandler) ApproveDeliverable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deliverableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApproveDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deliverable, err := h.deliverableService.ApproveDeliverable(deliverableID, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "APPROVE_DELIVERABLE", map[string]interface{}{"deliverable_id": deliverableID})

	c.JSON(http.StatusOK, gin.H{"deliverable": deliverable})
}

// RejectDeliverable handles rejecting a submitted deliverable.
// @Summary     Reject deliverable
// @Description Reject a submitted deliverable; a reason is required
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Deliverable ID"
// @Param       request body RejectDeliverableRequest true "Rejection reason"
// @Success     200 {object} models.Deliverable "Rejected deliverable"
// @Failure     400 {object} ErrorResponse "Missing rejection reason"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deliverable not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deliverables/{id}/reject [put]
func (h *DeliverableHandler) RejectDeliverable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deliverableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deliverable, err := h.deliverableService.RejectDeliverable(deliverableID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REJECT_DELIVERABLE", map[string]interface{}{"deliverable_id": deliverableID})

	c.JSON(http.StatusOK, gin.H{"deliverable": deliverable})
}

// DeleteDeliverable handles deleting a deliverable.
// @Summary     Delete deliverable
// @Description Delete a deliverable by ID
// @Tags        deliverables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Deliverable ID"
// @Success     200 {object} MessageResponse "Deliverable deleted"
// @Failure     400 {object} ErrorResponse "Invalid deliverable ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deliverable not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deliverables/{id} [delete]
func (h *DeliverableHandler) DeleteDeliverable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deliverableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.deliverableService.DeleteDeliverable(deliverableID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_DELIVERABLE", map[string]interface{}{"deliverable_id": deliverableID})

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable deleted successfully"})
}
