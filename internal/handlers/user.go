package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"event-service/internal/models"
	"event-service/internal/repositories"
)

// UserHandler manages registration, sign-in and profile endpoints.
type UserHandler struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

// NewUserHandler builds a UserHandler. cost 0 selects the bcrypt default.
func NewUserHandler(userRepo repositories.UserRepository, cost int) *UserHandler {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserHandler{userRepo: userRepo, bcryptCost: cost}
}

// List returns all users, newest first. The hash field is never
// serialized.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// Get returns one user.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Register creates an account. Username is required; email and password
// travel together and the password is hashed before storage.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != "" && len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}
	if req.Password != "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required with a password"})
		return
	}

	taken, err := h.userRepo.Taken(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check availability"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		user.PasswordHash = string(hash)
	}

	created, err := h.userRepo.Create(c.Request.Context(), user)
	if err != nil {
		// The unique index backstops the pre-check under races.
		if errors.Is(err, repositories.ErrDuplicateUser) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusOK, created)
}

// SignIn verifies email+password and marks the user online.
func (h *UserHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	// Accounts created without a password (social/legacy) cannot sign in
	// this way.
	if user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := h.userRepo.SetOnline(c.Request.Context(), user.ID, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark online"})
		return
	}
	user.Online = true
	c.JSON(http.StatusOK, user)
}

// SignOut marks a user offline. Idempotent.
func (h *UserHandler) SignOut(c *gin.Context) {
	var req struct {
		UserID int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userRepo.SetOnline(c.Request.Context(), req.UserID, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Patch merges a partial profile update into the stored row.
func (h *UserHandler) Patch(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	user, err := h.userRepo.Patch(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, repositories.ErrDuplicateUser):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}
