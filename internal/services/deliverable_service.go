package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// deliverableService handles deliverable review workflow logic.
type deliverableService struct {
	db *gorm.DB
}

// NewDeliverableService creates a new DeliverableServicer.
func NewDeliverableService(db *gorm.DB) DeliverableServicer {
	return &deliverableService{db: db}
}

// CreateDeliverable creates a new deliverable under a project.
func (s *deliverableService) CreateDeliverable(projectID uint, title, description string, dueDate, expectedDeliveryDate *time.Time) (*models.Deliverable, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deliverable title is required")
	}

	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	deliverable := &models.Deliverable{
		ProjectID:            projectID,
		Title:                title,
		Description:          description,
		Status:               models.DeliverableStatusPending,
		DueDate:              dueDate,
		ExpectedDeliveryDate: expectedDeliveryDate,
	}

	if err := s.db.Create(deliverable).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deliverable, nil
}

// GetProjectDeliverables returns a paginated list of deliverables for a project.
func (s *deliverableService) GetProjectDeliverables(projectID uint, page pagination.PageRequest, status *models.DeliverableStatus) (*pagination.PageResponse[models.Deliverable], error) {
	page.Defaults()

	base := s.db.Model(&models.Deliverable{}).Where("project_id = ?", projectID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deliverables []models.Deliverable
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&deliverables).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(deliverables, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDeliverableByID returns a deliverable by ID.
func (s *deliverableService) GetDeliverableByID(deliverableID uint) (*models.Deliverable, error) {
	var deliverable models.Deliverable
	if err := s.db.First(&deliverable, deliverableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDeliverableNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &deliverable, nil
}

// SubmitDeliverable marks a deliverable as submitted for review.
func (s *deliverableService) SubmitDeliverable(deliverableID uint, notes string) (*models.Deliverable, error) {
	deliverable, err := s.GetDeliverableByID(deliverableID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.DeliverableStatusSubmitted,
		"submission_date":  &now,
		"submission_notes": notes,
	}
	if err := s.db.Model(deliverable).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deliverable, nil
}

// ApproveDeliverable marks a submitted deliverable as approved.
func (s *deliverableService) ApproveDeliverable(deliverableID uint, notes string) (*models.Deliverable, error) {
	deliverable, err := s.GetDeliverableByID(deliverableID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.DeliverableStatusApproved,
		"approval_date":  &now,
		"approval_notes": notes,
	}
	if err := s.db.Model(deliverable).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deliverable, nil
}

// RejectDeliverable marks a submitted deliverable as rejected.
// A reason is mandatory so the team knows what to fix.
func (s *deliverableService) RejectDeliverable(deliverableID uint, reason string) (*models.Deliverable, error) {
	if reason == "" {
		return nil, apperrors.ErrRejectionReason
	}

	deliverable, err := s.GetDeliverableByID(deliverableID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.DeliverableStatusRejected,
		"rejection_date":   &now,
		"rejection_reason": reason,
	}
	if err := s.db.Model(deliverable).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deliverable, nil
}

// DeleteDeliverable removes a deliverable.
func (s *deliverableService) DeleteDeliverable(deliverableID uint) error {
	deliverable, err := s.GetDeliverableByID(deliverableID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(deliverable).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
