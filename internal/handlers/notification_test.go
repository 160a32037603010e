package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"event-service/internal/mocks"
	"event-service/internal/models"
)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/notifications/:userID", handler.List)
	r.PATCH("/api/notifications/read", handler.MarkAllRead)
	r.POST("/api/notifications", handler.Create)
	return r
}

func TestNotificationListCapped(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo)
	router := setupNotificationRouter(handler)

	notificationRepo.On("ListRecent", mock.Anything, 2, 50).
		Return([]models.Notification{{ID: 1, UserID: 2, Type: "follow"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	notificationRepo.AssertExpectations(t)
}

func TestNotificationMarkAllRead(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo)
	router := setupNotificationRouter(handler)

	notificationRepo.On("MarkAllRead", mock.Anything, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/read",
		bytes.NewBufferString(`{"userId":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	notificationRepo.AssertExpectations(t)
}

func TestNotificationDirectCreate(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo)
	router := setupNotificationRouter(handler)

	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 3 && n.Type == models.NotificationInvite
	})).Return(models.Notification{ID: 4, UserID: 3, Type: models.NotificationInvite}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/notifications",
		bytes.NewBufferString(`{"user_id":3,"type":"invite","title":"You are invited"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	notificationRepo.AssertExpectations(t)
}

func TestNotificationCreateMissingType(t *testing.T) {
	handler := NewNotificationHandler(new(mocks.NotificationRepositoryMock))
	router := setupNotificationRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/notifications",
		bytes.NewBufferString(`{"user_id":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
