package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// taskService handles task-related business logic.
type taskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB) TaskServicer {
	return &taskService{db: db}
}

// CreateTask creates a new task under a project.
func (s *taskService) CreateTask(projectID uint, title, description string, priority models.Priority, assignedTo *uint, dueDate *time.Time, estimatedHours float64) (*models.Task, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "task title is required")
	}

	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		ProjectID:      projectID,
		Title:          title,
		Description:    description,
		Status:         models.TaskStatusTodo,
		Priority:       priority,
		AssignedTo:     assignedTo,
		DueDate:        dueDate,
		EstimatedHours: estimatedHours,
	}

	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return task, nil
}

// GetProjectTasks returns a paginated list of tasks for a project.
func (s *taskService) GetProjectTasks(projectID uint, page pagination.PageRequest, status *models.TaskStatus) (*pagination.PageResponse[models.Task], error) {
	page.Defaults()

	base := s.db.Model(&models.Task{}).Where("project_id = ?", projectID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tasks []models.Task
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tasks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserTasks returns a paginated list of tasks assigned to a user.
func (s *taskService) GetUserTasks(userID uint, page pagination.PageRequest, status *models.TaskStatus) (*pagination.PageResponse[models.Task], error) {
	page.Defaults()

	base := s.db.Model(&models.Task{}).Where("assigned_to = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tasks []models.Task
	if err := base.Order("due_date ASC").Scopes(pagination.Paginate(page)).Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tasks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTaskByID returns a task by ID.
func (s *taskService) GetTaskByID(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &task, nil
}

// UpdateTask applies a sparse update to a task. Moving a task to completed
// stamps CompletedAt; moving it out of completed clears the stamp.
func (s *taskService) UpdateTask(taskID uint, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Title != "" {
		updates["title"] = update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Status != nil {
		updates["status"] = *update.Status
		if *update.Status == models.TaskStatusCompleted {
			if task.CompletedAt == nil {
				now := time.Now()
				updates["completed_at"] = &now
			}
		} else {
			updates["completed_at"] = nil
		}
	}
	if update.Priority != nil {
		updates["priority"] = *update.Priority
	}
	if update.AssignedTo != nil {
		updates["assigned_to"] = *update.AssignedTo
	}
	if update.DueDate != nil {
		updates["due_date"] = update.DueDate
	}
	if update.EstimatedHours != nil {
		updates["estimated_hours"] = *update.EstimatedHours
	}

	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *taskService) DeleteTask(taskID uint) error {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(task).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetKanbanBoard returns every task of a project grouped by status. Each
// status is present in the result even when its column is empty.
func (s *taskService) GetKanbanBoard(projectID uint) (map[models.TaskStatus][]models.Task, error) {
	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	board := map[models.TaskStatus][]models.Task{
		models.TaskStatusTodo:       {},
		models.TaskStatusInProgress: {},
		models.TaskStatusReview:     {},
		models.TaskStatusCompleted:  {},
	}
	for _, task := range tasks {
		board[task.Status] = append(board[task.Status], task)
	}
	return board, nil
}
