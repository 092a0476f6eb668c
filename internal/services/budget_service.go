package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
)

// budgetService handles project budget business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget line for a project category.
func (s *budgetService) CreateBudget(projectID uint, budgetAmount float64, category string) (*models.Budget, error) {
	if budgetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be positive")
	}

	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	if category == "" {
		category = "general"
	}

	budget := &models.Budget{
		ProjectID:    projectID,
		BudgetAmount: budgetAmount,
		Category:     category,
		Status:       "active",
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetProjectBudgets returns all budget lines for a project with their
// computed spending figures.
func (s *budgetService) GetProjectBudgets(projectID uint) ([]BudgetStatus, error) {
	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	var budgets []models.Budget
	if err := s.db.Where("project_id = ?", projectID).Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.statusRows(budgets)
}

// GetAllActiveBudgets returns every active budget line across all projects
// with its computed spending figures.
func (s *budgetService) GetAllActiveBudgets() ([]BudgetStatus, error) {
	var budgets []models.Budget
	if err := s.db.Where("status = ?", "active").Order("project_id ASC, category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.statusRows(budgets)
}

func (s *budgetService) statusRows(budgets []models.Budget) ([]BudgetStatus, error) {
	rows := make([]BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		row, err := s.statusFor(&budget)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// GetBudgetByID returns a budget line by ID.
func (s *budgetService) GetBudgetByID(budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetStatus calculates actual spend against a budget line. Spent is
// the sum of expenses recorded for the budget's project and category.
// A zero budget amount reports zero percent used.
func (s *budgetService) GetBudgetStatus(budgetID uint) (*BudgetStatus, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(budget)
}

func (s *budgetService) statusFor(budget *models.Budget) (*BudgetStatus, error) {
	var spent float64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("project_id = ? AND category = ?", budget.ProjectID, budget.Category).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var percentUsed float64
	if budget.BudgetAmount > 0 {
		percentUsed = spent / budget.BudgetAmount * 100
	}

	return &BudgetStatus{
		BudgetID:     budget.ID,
		ProjectID:    budget.ProjectID,
		Category:     budget.Category,
		Status:       budget.Status,
		BudgetAmount: budget.BudgetAmount,
		Spent:        spent,
		Remaining:    budget.BudgetAmount - spent,
		PercentUsed:  percentUsed,
	}, nil
}

// UpdateBudget applies a sparse update to a budget line.
func (s *budgetService) UpdateBudget(budgetID uint, budgetAmount *float64, category, status string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if budgetAmount != nil {
		if *budgetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be positive")
		}
		updates["budget_amount"] = *budgetAmount
	}
	if category != "" {
		updates["category"] = category
	}
	if status != "" {
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget removes a budget line.
func (s *budgetService) DeleteBudget(budgetID uint) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
