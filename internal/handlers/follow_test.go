package handlers

import (
	"bytes"
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
)

func setupFollowRouter(handler *FollowHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/users/:id/follows", handler.List)
	r.POST("/api/follows", handler.Toggle)
	return r
}

func TestFollowToggleCreatesEdgeAndNotifies(t *testing.T) {
	followRepo := new(mocks.FollowRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewFollowHandler(followRepo, userRepo, notificationRepo)
	router := setupFollowRouter(handler)

	followRepo.On("Toggle", mock.Anything, 1, 2).Return(true, nil).Once()
	userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()

	notified := make(chan struct{})
	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == 2 && n.Type == models.NotificationFollow
	})).Run(func(mock.Arguments) { close(notified) }).
		Return(models.Notification{ID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/follows",
		bytes.NewBufferString(`{"follower_id":1,"following_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"following":true}`, rec.Body.String())

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("follow notification was never written")
	}
	followRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestFollowToggleRemovesEdgeSilently(t *testing.T) {
	followRepo := new(mocks.FollowRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewFollowHandler(followRepo, new(mocks.UserRepositoryMock), notificationRepo)
	router := setupFollowRouter(handler)

	followRepo.On("Toggle", mock.Anything, 1, 2).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/follows",
		bytes.NewBufferString(`{"follower_id":1,"following_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"following":false}`, rec.Body.String())

	time.Sleep(100 * time.Millisecond)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	followRepo.AssertExpectations(t)
}

func TestFollowSelfRejected(t *testing.T) {
	handler := NewFollowHandler(new(mocks.FollowRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.NotificationRepositoryMock))
	router := setupFollowRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/follows",
		bytes.NewBufferString(`{"follower_id":1,"following_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowListBothDirections(t *testing.T) {
	followRepo := new(mocks.FollowRepositoryMock)
	handler := NewFollowHandler(followRepo, new(mocks.UserRepositoryMock), new(mocks.NotificationRepositoryMock))
	router := setupFollowRouter(handler)

	followRepo.On("Following", mock.Anything, 1).Return([]models.User{{ID: 2, Username: "bob"}}, nil).Once()
	followRepo.On("Followers", mock.Anything, 1).Return(([]models.User)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/1/follows", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"followers":[]`)
	assert.Contains(t, rec.Body.String(), `"bob"`)
	followRepo.AssertExpectations(t)
}
