package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/observability"
	"event-service/internal/repositories"
	"event-service/internal/telemetry"
	"event-service/internal/ws"
)

const trendingWindow = 24 * time.Hour

// EventHandler manages event CRUD, RSVP toggling and trending.
type EventHandler struct {
	eventRepo        repositories.EventRepository
	notificationRepo repositories.NotificationRepository
	hub              *ws.Hub
	emitter          *telemetry.ActivityEmitter
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(eventRepo repositories.EventRepository, notificationRepo repositories.NotificationRepository, hub *ws.Hub, emitter *telemetry.ActivityEmitter) *EventHandler {
	return &EventHandler{
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
		emitter:          emitter,
	}
}

// Create stores a new event and announces it to connected clients.
func (h *EventHandler) Create(c *gin.Context) {
	var req struct {
		Name          string   `json:"name" binding:"required"`
		Location      string   `json:"location" binding:"required"`
		Category      string   `json:"category" binding:"required"`
		Host          string   `json:"host" binding:"required"`
		CategoryColor string   `json:"category_color"`
		HostAvatar    string   `json:"host_avatar"`
		Privacy       string   `json:"privacy"`
		Lat           float64  `json:"lat"`
		Lng           float64  `json:"lng"`
		Description   string   `json:"description"`
		Date          string   `json:"date"`
		Time          string   `json:"time"`
		MaxAttendees  int      `json:"max_attendees"`
		Tags          []string `json:"tags"`
		Image         string   `json:"image"`
		CreatedBy     int      `json:"created_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacy must be public or private"})
		return
	}

	event := models.Event{
		Name:          req.Name,
		Location:      req.Location,
		Category:      req.Category,
		CategoryColor: req.CategoryColor,
		Host:          req.Host,
		HostAvatar:    req.HostAvatar,
		Privacy:       privacy,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Description:   req.Description,
		Date:          req.Date,
		Time:          req.Time,
		MaxAttendees:  req.MaxAttendees,
		Tags:          models.StringList(req.Tags),
		Image:         req.Image,
		CreatedBy:     req.CreatedBy,
	}
	if event.Tags == nil {
		event.Tags = models.StringList{}
	}

	created, err := h.eventRepo.Create(c.Request.Context(), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	h.hub.Broadcast(models.SocketEnvelope{Type: "eventCreated", Data: created})
	activity := models.Activity{
		Type:      "eventCreated",
		User:      created.Host,
		Action:    fmt.Sprintf("created event %q", created.Name),
		Timestamp: time.Now(),
	}
	h.hub.Broadcast(models.SocketEnvelope{Type: "activity", Data: activity})
	h.emitter.Emit(c.Request.Context(), activity, requestIDFromContext(c))

	c.JSON(http.StatusOK, created)
}

// Get returns one event with its RSVP list.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	event, err := h.eventRepo.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// List returns all events, newest first.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// Delete removes an event. Absence of a matching row is deliberately
// indistinguishable from success.
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	if err := h.eventRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RSVP toggles the caller's attendance on an event and returns the
// updated row.
func (h *EventHandler) RSVP(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID   int    `json:"userId" binding:"required"`
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventRepo.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	added, err := h.eventRepo.ToggleRSVP(c.Request.Context(), id, models.RSVP{UserID: req.UserID, Username: req.Username})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rsvp"})
		return
	}

	// Activity and creator notification fire only when joining, never on
	// removal. Both are fire-and-forget.
	if added {
		h.announceRSVP(event, req.UserID, req.Username, requestIDFromContext(c))
	}

	updated, err := h.eventRepo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) announceRSVP(event models.Event, userID int, username string, requestID string) {
	activity := models.Activity{
		Type:      "rsvp",
		User:      username,
		Action:    fmt.Sprintf("is going to %q", event.Name),
		Timestamp: time.Now(),
	}
	h.hub.Broadcast(models.SocketEnvelope{Type: "activity", Data: activity})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.emitter.Emit(ctx, activity, requestID)

		if event.CreatedBy == 0 || event.CreatedBy == userID {
			return
		}
		_, err := h.notificationRepo.Create(ctx, models.Notification{
			UserID: event.CreatedBy,
			Type:   models.NotificationRSVP,
			Title:  "New RSVP",
			Body:   fmt.Sprintf("%s is going to %s", username, event.Name),
			Payload: models.Payload{
				"event_id": event.ID,
				"user_id":  userID,
			},
		})
		if err != nil {
			log.Printf("rsvp notification failed for event %d: %v", event.ID, err)
			observability.IncSideEffectFailure("rsvp_notification")
		}
	}()
}

// Trending returns public events created in the last 24 hours, ranked by
// RSVP count.
func (h *EventHandler) Trending(c *gin.Context) {
	events, err := h.eventRepo.Trending(c.Request.Context(), time.Now().Add(-trendingWindow))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trending events"})
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}
