package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// clientService handles client-related business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// CreateClient registers a new client.
func (s *clientService) CreateClient(name, email, phone, company, address string) (*models.Client, error) {
	if name == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and email are required")
	}

	email = strings.ToLower(email)

	var count int64
	s.db.Model(&models.Client{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateClientEmail
	}

	client := &models.Client{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Company: company,
		Address: address,
		Status:  "active",
	}

	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return client, nil
}

// GetClients returns a paginated list of clients with an optional status filter.
func (s *clientService) GetClients(page pagination.PageRequest, status string) (*pagination.PageResponse[models.Client], error) {
	page.Defaults()

	base := s.db.Model(&models.Client{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clients []models.Client
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(clients, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetClientByID returns a client by ID.
func (s *clientService) GetClientByID(clientID uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient applies a sparse update to a client.
func (s *clientService) UpdateClient(clientID uint, name, email, phone, company, address, status string) (*models.Client, error) {
	client, err := s.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if email != "" {
		email = strings.ToLower(email)
		if email != client.Email {
			var count int64
			s.db.Model(&models.Client{}).Where("email = ? AND id != ?", email, clientID).Count(&count)
			if count > 0 {
				return nil, apperrors.ErrDuplicateClientEmail
			}
			updates["email"] = email
		}
	}
	if phone != "" {
		updates["phone"] = phone
	}
	if company != "" {
		updates["company"] = company
	}
	if address != "" {
		updates["address"] = address
	}
	if status != "" {
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := s.db.Model(client).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return client, nil
}

// DeleteClient removes a client. Projects and invoices referencing the
// client keep their rows with the reference cleared.
func (s *clientService) DeleteClient(clientID uint) error {
	client, err := s.GetClientByID(clientID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(client).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
