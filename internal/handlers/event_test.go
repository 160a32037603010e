package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"event-service/internal/mocks"
	"event-service/internal/models"
	"event-service/internal/repositories"
	"event-service/internal/ws"
)

func setupEventRouter(handler *EventHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/events", handler.List)
	r.POST("/api/events", handler.Create)
	r.GET("/api/events/trending", handler.Trending)
	r.DELETE("/api/events/:id", handler.Delete)
	r.POST("/api/events/:id/rsvp", handler.RSVP)
	return r
}

func TestCreateEventDefaults(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev models.Event) bool {
		return ev.Name == "Picnic" && ev.Privacy == models.PrivacyPublic &&
			ev.Lat == 0 && ev.Lng == 0 && len(ev.Tags) == 0
	})).Return(models.Event{
		ID: 1, Name: "Picnic", Location: "Park", Category: "Social", Host: "alice",
		Privacy: models.PrivacyPublic, Rsvps: []models.RSVP{},
	}, nil).Once()

	body := bytes.NewBufferString(`{"name":"Picnic","location":"Park","category":"Social","host":"alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/events", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []any{}, resp["rsvps"])
	eventRepo.AssertExpectations(t)
}

func TestCreateEventMissingField(t *testing.T) {
	handler := NewEventHandler(new(mocks.EventRepositoryMock), new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/events",
		bytes.NewBufferString(`{"name":"Picnic","location":"Park"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRSVPToggleInvolution(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	empty := models.Event{ID: 5, Name: "Picnic", Rsvps: []models.RSVP{}}
	withBob := models.Event{ID: 5, Name: "Picnic", Rsvps: []models.RSVP{{UserID: 7, Username: "Bob"}}}
	rsvp := models.RSVP{UserID: 7, Username: "Bob"}

	// First toggle adds Bob.
	eventRepo.On("Get", mock.Anything, 5).Return(empty, nil).Once()
	eventRepo.On("ToggleRSVP", mock.Anything, 5, rsvp).Return(true, nil).Once()
	eventRepo.On("Get", mock.Anything, 5).Return(withBob, nil).Once()
	// Second toggle removes him again.
	eventRepo.On("Get", mock.Anything, 5).Return(withBob, nil).Once()
	eventRepo.On("ToggleRSVP", mock.Anything, 5, rsvp).Return(false, nil).Once()
	eventRepo.On("Get", mock.Anything, 5).Return(empty, nil).Once()

	body := `{"userId":7,"username":"Bob"}`

	req := httptest.NewRequest(http.MethodPost, "/api/events/5/rsvp", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var first models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&first))
	assert.Equal(t, []models.RSVP{{UserID: 7, Username: "Bob"}}, first.Rsvps)

	req = httptest.NewRequest(http.MethodPost, "/api/events/5/rsvp", bytes.NewBufferString(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var second models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&second))
	assert.Empty(t, second.Rsvps)

	eventRepo.AssertExpectations(t)
}

func TestRSVPEventNotFound(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	eventRepo.On("Get", mock.Anything, 99).Return(models.Event{}, repositories.ErrEventNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/events/99/rsvp",
		bytes.NewBufferString(`{"userId":7,"username":"Bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestRSVPAddNotifiesCreator(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewEventHandler(eventRepo, notificationRepo, ws.NewHub(), nil)
	router := setupEventRouter(handler)

	event := models.Event{ID: 5, Name: "Picnic", CreatedBy: 2, Rsvps: []models.RSVP{}}
	eventRepo.On("Get", mock.Anything, 5).Return(event, nil).Twice()
	eventRepo.On("ToggleRSVP", mock.Anything, 5, models.RSVP{UserID: 7, Username: "Bob"}).Return(true, nil).Once()

	notified := make(chan struct{})
	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 2 && n.Type == models.NotificationRSVP
	})).Run(func(mock.Arguments) { close(notified) }).
		Return(models.Notification{ID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/events/5/rsvp",
		bytes.NewBufferString(`{"userId":7,"username":"Bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("creator notification was never written")
	}
	notificationRepo.AssertExpectations(t)
}

func TestRSVPOwnEventSkipsNotification(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewEventHandler(eventRepo, notificationRepo, ws.NewHub(), nil)
	router := setupEventRouter(handler)

	event := models.Event{ID: 5, Name: "Picnic", CreatedBy: 7, Rsvps: []models.RSVP{}}
	eventRepo.On("Get", mock.Anything, 5).Return(event, nil).Twice()
	eventRepo.On("ToggleRSVP", mock.Anything, 5, mock.Anything).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/events/5/rsvp",
		bytes.NewBufferString(`{"userId":7,"username":"Bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	time.Sleep(100 * time.Millisecond)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteEventIdempotent(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	eventRepo.On("Delete", mock.Anything, 42).Return(nil).Twice()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/events/42", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	eventRepo.AssertExpectations(t)
}

func TestTrendingRanked(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo, new(mocks.NotificationRepositoryMock), ws.NewHub(), nil)
	router := setupEventRouter(handler)

	eventRepo.On("Trending", mock.Anything, mock.Anything).Return([]models.Event{
		{ID: 2, Name: "busy", Rsvps: []models.RSVP{{UserID: 1}, {UserID: 2}}},
		{ID: 1, Name: "quiet", Rsvps: []models.RSVP{}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/events/trending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var events []models.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "busy", events[0].Name)
	eventRepo.AssertExpectations(t)
}
