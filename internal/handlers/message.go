package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/repositories"
	"event-service/internal/ws"
)

// MessageHandler manages direct message endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	hub         *ws.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, hub: hub}
}

// History returns the conversation between two users, oldest first. The
// view is symmetric: either ordering of the pair yields the same result.
func (h *MessageHandler) History(c *gin.Context) {
	userA, ok := paramInt(c, "userA")
	if !ok {
		return
	}
	userB, ok := paramInt(c, "userB")
	if !ok {
		return
	}

	msgs, err := h.messageRepo.Conversation(c.Request.Context(), userA, userB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// Send stores a message and pushes it to the recipient's live connection
// if one exists, echoing to the sender's own connection as well.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		From int    `json:"from" binding:"required"`
		To   int    `json:"to" binding:"required"`
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.Create(c.Request.Context(), req.From, req.To, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	event := models.SocketEnvelope{Type: "newMessage", Data: msg}
	h.hub.SendToUser(req.To, event)
	h.hub.SendToUser(req.From, event)

	c.JSON(http.StatusOK, msg)
}
