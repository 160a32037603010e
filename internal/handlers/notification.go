package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/repositories"
)

const notificationPageSize = 50

// NotificationHandler manages notification endpoints.
type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// List returns the 50 most recent notifications for a recipient.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := paramInt(c, "userID")
	if !ok {
		return
	}

	notifications, err := h.notificationRepo.ListRecent(c.Request.Context(), userID, notificationPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkAllRead flags every notification for a recipient as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var req struct {
		UserID int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notificationRepo.MarkAllRead(c.Request.Context(), req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Create stores a notification directly, used for invites and other
// arbitrary types.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req struct {
		UserID  int            `json:"user_id" binding:"required"`
		Type    string         `json:"type" binding:"required"`
		Title   string         `json:"title"`
		Body    string         `json:"body"`
		Payload models.Payload `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.notificationRepo.Create(c.Request.Context(), models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Body:    req.Body,
		Payload: req.Payload,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification"})
		return
	}
	c.JSON(http.StatusOK, created)
}
