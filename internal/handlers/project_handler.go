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

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, auditService: auditService}
}

// CreateProjectRequest represents the request payload for creating a project.
type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required,min=1,max=255"`
	Description string               `json:"description" binding:"omitempty,max=2000"`
	ClientID    *uint                `json:"client_id"`
	Status      models.ProjectStatus `json:"status" binding:"omitempty,project_status"`
	Priority    models.Priority      `json:"priority" binding:"omitempty,priority"`
	StartDate   *time.Time           `json:"start_date"`
	Deadline    *time.Time           `json:"deadline"`
	Budget      float64              `json:"budget" binding:"omitempty,gte=0"`
	AssignedTo  *uint                `json:"assigned_to"`
}

// UpdateProjectRequest represents the request payload for updating a project.
type UpdateProjectRequest struct {
	Name        string                `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	ClientID    *uint                 `json:"client_id"`
	Status      *models.ProjectStatus `json:"status" binding:"omitempty,project_status"`
	Priority    *models.Priority      `json:"priority" binding:"omitempty,priority"`
	StartDate   *time.Time            `json:"start_date"`
	Deadline    *time.Time            `json:"deadline"`
	Budget      *float64              `json:"budget" binding:"omitempty,gte=0"`
	AssignedTo  *uint                 `json:"assigned_to"`
	Progress    *int                  `json:"progress" binding:"omitempty,gte=0,lte=100"`
}

// CreateProject handles the creation of a new project.
// @Summary     Create a project
// @Description Create a new project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(userID, services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		Budget:      req.Budget,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PROJECT", map[string]interface{}{"project_id": project.ID, "name": project.Name})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects.
// @Summary     List projects
// @Description Get a paginated list of projects with optional filters
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status"
// @Param       client_id query int    false "Filter by client"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
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

	var status *models.ProjectStatus
	if v := c.Query("status"); v != "" {
		st := models.ProjectStatus(v)
		switch st {
		case models.ProjectStatusPlanning, models.ProjectStatusInProgress,
			models.ProjectStatusCompleted, models.ProjectStatusOnHold:
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

	result, err := h.projectService.GetProjects(viewer, page, status, clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a specific project.
// @Summary     Get project by ID
// @Description Get a project with its tasks and deliverables
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	viewer, err := getViewer(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(viewer, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles updating an existing project.
// @Summary     Update project
// @Description Update an existing project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Project ID"
// @Param       request body UpdateProjectRequest true "Updated project details"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input or project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	viewer, err := getViewer(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(viewer, projectID, services.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		Budget:      req.Budget,
		AssignedTo:  req.AssignedTo,
		Progress:    req.Progress,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(viewer.UserID, "UPDATE_PROJECT", map[string]interface{}{"project_id": projectID})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles deleting a project.
// @Summary     Delete project
// @Description Delete a project along with its tasks and deliverables
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	viewer, err := getViewer(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(viewer, projectID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(viewer.UserID, "DELETE_PROJECT", map[string]interface{}{"project_id": projectID})

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
