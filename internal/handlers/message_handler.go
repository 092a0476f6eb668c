package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
	"studiohub/internal/services"
)

// MessageHandler handles internal messaging requests.
type MessageHandler struct {
	messageService      services.MessageServicer
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService services.MessageServicer, notificationService services.NotificationServicer, auditService services.AuditServicer) *MessageHandler {
	return &MessageHandler{messageService: messageService, notificationService: notificationService, auditService: auditService}
}

// SendMessageRequest represents the request payload for sending a message.
type SendMessageRequest struct {
	RecipientID *uint              `json:"recipient_id"`
	ProjectID   *uint              `json:"project_id"`
	ClientID    *uint              `json:"client_id"`
	Subject     string             `json:"subject" binding:"omitempty,max=255"`
	Content     string             `json:"content" binding:"required,min=1,max=5000"`
	Type        models.MessageType `json:"type" binding:"omitempty,message_type"`
}

// SendMessage handles sending a new message.
// @Summary     Send a message
// @Description Send a message to another user, optionally tied to a project or client
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SendMessageRequest true "Message details"
// @Success     201 {object} models.Message "Message sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipient or project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	message, err := h.messageService.SendMessage(userID, req.RecipientID, req.ProjectID, req.ClientID, req.Subject, req.Content, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if req.RecipientID != nil {
		msgID := message.ID
		if err := h.notificationService.Notify(*req.RecipientID, "message", "New message", req.Subject, &msgID, "message"); err != nil {
			respondWithError(c, err)
			return
		}
	}

	h.auditService.Log(userID, "SEND_MESSAGE", map[string]interface{}{"message_id": message.ID})

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// GetInbox handles listing received messages.
// @Summary     Inbox
// @Description Get a paginated list of messages received by the authenticated user
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       unread    query bool false "Only unread messages"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Message] "Paginated messages"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/inbox [get]
func (h *MessageHandler) GetInbox(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unreadOnly := c.Query("unread") == "true"

	result, err := h.messageService.GetInbox(userID, page, unreadOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSent handles listing sent messages.
// @Summary     Sent messages
// @Description Get a paginated list of messages sent by the authenticated user
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Message] "Paginated messages"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/sent [get]
func (h *MessageHandler) GetSent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.messageService.GetSent(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMessage handles retrieving a specific message.
// @Summary     Get message by ID
// @Description Get a message the authenticated user sent or received
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Message ID"
// @Success     200 {object} models.Message "Message details"
// @Failure     400 {object} ErrorResponse "Invalid message ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a participant"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	message, err := h.messageService.GetMessageByID(userID, messageID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// MarkRead handles marking a message as read.
// @Summary     Mark message read
// @Description Mark a received message as read
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Message ID"
// @Success     200 {object} MessageResponse "Message marked read"
// @Failure     400 {object} ErrorResponse "Invalid message ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.messageService.MarkMessageRead(userID, messageID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}

// GetUnreadCount handles counting unread messages.
// @Summary     Unread count
// @Description Get the number of unread messages for the authenticated user
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64 "Unread count"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/unread-count [get]
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.messageService.GetUnreadCount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// DeleteMessage handles deleting a message.
// @Summary     Delete message
// @Description Delete a message the authenticated user sent or received
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Message ID"
// @Success     200 {object} MessageResponse "Message deleted"
// @Failure     400 {object} ErrorResponse "Invalid message ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a participant"
// @Failure     404 {object} ErrorResponse "Message not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	messageID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.messageService.DeleteMessage(userID, messageID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_MESSAGE", map[string]interface{}{"message_id": messageID})

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}

// GetProjectThread handles retrieving a project's message thread.
// @Summary     Get project thread
// @Description Get every message attached to a project, grouped by type
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} map[string][]models.Message "Messages by type"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messages/project/{id} [get]
func (h *MessageHandler) GetProjectThread(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	thread, err := h.messageService.GetProjectThread(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": thread})
}
