package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/repositories"
)

// CommentHandler manages event comment endpoints.
type CommentHandler struct {
	commentRepo repositories.CommentRepository
}

// NewCommentHandler builds a CommentHandler.
func NewCommentHandler(commentRepo repositories.CommentRepository) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo}
}

// List returns an event's comments, oldest first.
func (h *CommentHandler) List(c *gin.Context) {
	eventID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentRepo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// Create stores a comment on an event.
func (h *CommentHandler) Create(c *gin.Context) {
	eventID, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID   int    `json:"user_id" binding:"required"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
		Body     string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentRepo.Create(c.Request.Context(), models.Comment{
		EventID:  eventID,
		UserID:   req.UserID,
		Username: req.Username,
		Avatar:   req.Avatar,
		Body:     req.Body,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment by id. Idempotent.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
