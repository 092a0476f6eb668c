package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new project.
func (s *projectService) CreateProject(createdBy uint, input ProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}

	if input.ClientID != nil {
		var count int64
		s.db.Model(&models.Client{}).Where("id = ?", *input.ClientID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrClientNotFound
		}
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	project := &models.Project{
		ClientID:    input.ClientID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   input.StartDate,
		Deadline:    input.Deadline,
		Budget:      input.Budget,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   createdBy,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// canViewProject reports whether the viewer may see the project. Admins and
// managers see everything; everyone else must be the assignee or creator.
func canViewProject(viewer Viewer, project *models.Project) bool {
	if viewer.Role == models.RoleAdmin || viewer.Role == models.RoleManager {
		return true
	}
	if project.AssignedTo != nil && *project.AssignedTo == viewer.UserID {
		return true
	}
	return project.CreatedBy == viewer.UserID
}

// GetProjects returns a paginated list of projects with optional filters.
// Non-admin, non-manager viewers only see projects assigned to or created
// by them.
func (s *projectService) GetProjects(viewer Viewer, page pagination.PageRequest, status *models.ProjectStatus, clientID *uint) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})
	if viewer.Role != models.RoleAdmin && viewer.Role != models.RoleManager {
		base = base.Where("(assigned_to = ? OR created_by = ?)", viewer.UserID, viewer.UserID)
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

	var projects []models.Project
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID returns a project with its tasks and deliverables.
func (s *projectService) GetProjectByID(viewer Viewer, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Tasks").Preload("Deliverables").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !canViewProject(viewer, &project) {
		return nil, apperrors.ErrForbidden
	}
	return &project, nil
}

// UpdateProject applies a sparse update to a project. Only admins, the
// assignee, or the creator may update it.
func (s *projectService) UpdateProject(viewer Viewer, projectID uint, update ProjectUpdate) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !canViewProject(viewer, &project) {
		return nil, apperrors.ErrForbidden
	}

	updates := make(map[string]interface{})
	if update.Name != "" {
		updates["name"] = update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.ClientID != nil {
		var count int64
		s.db.Model(&models.Client{}).Where("id = ?", *update.ClientID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrClientNotFound
		}
		updates["client_id"] = *update.ClientID
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Priority != nil {
		updates["priority"] = *update.Priority
	}
	if update.StartDate != nil {
		updates["start_date"] = update.StartDate
	}
	if update.Deadline != nil {
		updates["deadline"] = update.Deadline
	}
	if update.Budget != nil {
		updates["budget"] = *update.Budget
	}
	if update.AssignedTo != nil {
		updates["assigned_to"] = *update.AssignedTo
	}
	if update.Progress != nil {
		progress := *update.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		updates["progress"] = progress
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return &project, nil
}

// DeleteProject removes a project along with its tasks and deliverables.
// Only admins and the project's creator may delete it.
func (s *projectService) DeleteProject(viewer Viewer, projectID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if viewer.Role != models.RoleAdmin && project.CreatedBy != viewer.UserID {
		return apperrors.ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Deliverable{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
