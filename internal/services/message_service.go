package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// messageService handles messaging between users.
type messageService struct {
	db *gorm.DB
}

// NewMessageService creates a new MessageServicer.
func NewMessageService(db *gorm.DB) MessageServicer {
	return &messageService{db: db}
}

// SendMessage creates a message from the sender. Recipient, project and
// client references are all optional; a message with no recipient is a
// broadcast visible in project context.
func (s *messageService) SendMessage(senderID uint, recipientID, projectID, clientID *uint, subject, content string, msgType models.MessageType) (*models.Message, error) {
	if content == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message content is required")
	}

	if recipientID != nil {
		var count int64
		s.db.Model(&models.User{}).Where("id = ?", *recipientID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrUserNotFound
		}
	}
	if projectID != nil {
		var count int64
		s.db.Model(&models.Project{}).Where("id = ?", *projectID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrProjectNotFound
		}
	}

	if msgType == "" {
		msgType = models.MessageTypeMessage
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		ProjectID:   projectID,
		ClientID:    clientID,
		Subject:     subject,
		Content:     content,
		Type:        msgType,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return message, nil
}

// GetInbox returns a paginated list of messages addressed to the user.
func (s *messageService) GetInbox(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Message], error) {
	page.Defaults()

	base := s.db.Model(&models.Message{}).Where("recipient_id = ?", userID)
	if unreadOnly {
		base = base.Where("is_read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var messages []models.Message
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(messages, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSent returns a paginated list of messages the user has sent.
func (s *messageService) GetSent(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Message], error) {
	page.Defaults()

	base := s.db.Model(&models.Message{}).Where("sender_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var messages []models.Message
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(messages, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMessageByID returns a message if the user is its sender or recipient.
func (s *messageService) GetMessageByID(userID, messageID uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if message.SenderID != userID && (message.RecipientID == nil || *message.RecipientID != userID) {
		return nil, apperrors.ErrForbidden
	}

	return &message, nil
}

// GetProjectThread returns every message attached to a project, grouped by
// message type with each group in chronological order.
func (s *messageService) GetProjectThread(projectID uint) (map[models.MessageType][]models.Message, error) {
	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	var messages []models.Message
	if err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	thread := make(map[models.MessageType][]models.Message)
	for _, message := range messages {
		thread[message.Type] = append(thread[message.Type], message)
	}
	return thread, nil
}

// MarkMessageRead marks a message as read. Only the recipient may do this.
func (s *messageService) MarkMessageRead(userID, messageID uint) error {
	message, err := s.GetMessageByID(userID, messageID)
	if err != nil {
		return err
	}

	if message.RecipientID == nil || *message.RecipientID != userID {
		return apperrors.ErrForbidden
	}

	if !message.IsRead {
		if err := s.db.Model(message).Update("is_read", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// GetUnreadCount returns the number of unread messages in the user's inbox.
func (s *messageService) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// DeleteMessage removes a message. Only the sender or recipient may do this.
func (s *messageService) DeleteMessage(userID, messageID uint) error {
	message, err := s.GetMessageByID(userID, messageID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(message).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
