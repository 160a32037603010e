package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/observability"
	"event-service/internal/repositories"
)

// FollowHandler manages the follow graph.
type FollowHandler struct {
	followRepo       repositories.FollowRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

// NewFollowHandler builds a FollowHandler.
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		followRepo:       followRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// List returns who a user follows and who follows them.
func (h *FollowHandler) List(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	following, err := h.followRepo.Following(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load follows"})
		return
	}
	followers, err := h.followRepo.Followers(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load follows"})
		return
	}

	if following == nil {
		following = []models.User{}
	}
	if followers == nil {
		followers = []models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"following": following, "followers": followers})
}

// Toggle flips the follow edge and reports the resulting state. Creating
// an edge notifies the followed user; the notification write is
// fire-and-forget.
func (h *FollowHandler) Toggle(c *gin.Context) {
	var req struct {
		FollowerID  int `json:"follower_id" binding:"required"`
		FollowingID int `json:"following_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FollowerID == req.FollowingID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	following, err := h.followRepo.Toggle(c.Request.Context(), req.FollowerID, req.FollowingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle follow"})
		return
	}

	if following {
		h.notifyFollowed(req.FollowerID, req.FollowingID)
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *FollowHandler) notifyFollowed(followerID, followingID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		followerName := fmt.Sprintf("user %d", followerID)
		if follower, err := h.userRepo.GetByID(ctx, followerID); err == nil {
			followerName = follower.Username
		}

		_, err := h.notificationRepo.Create(ctx, models.Notification{
			UserID: followingID,
			Type:   models.NotificationFollow,
			Title:  "New follower",
			Body:   fmt.Sprintf("%s started following you", followerName),
			Payload: models.Payload{
				"follower_id": followerID,
			},
		})
		if err != nil {
			log.Printf("follow notification failed for user %d: %v", followingID, err)
			observability.IncSideEffectFailure("follow_notification")
		}
	}()
}
