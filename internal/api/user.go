package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/models"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Nickname string `json:"nickname"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the account it belongs to
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserHandler handles account registration and login
type UserHandler struct {
	auth *auth.Service
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{auth: authService}
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.Nickname)
	if err != nil {
		if auth.IsUsernameTaken(err) {
			respondError(c, http.StatusConflict, "username already taken")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to register user")
		respondError(c, http.StatusInternalServerError, "failed to register user")
		return
	}

	respondOK(c, "registered", user)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if auth.IsBadCredentials(err) {
			respondError(c, http.StatusUnauthorized, "invalid username or password")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to log in user")
		respondError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	respondOK(c, "logged in", LoginResponse{Token: token, User: user})
}

// SetupUserRoutes registers account routes
func SetupUserRoutes(apiGroup *gin.RouterGroup, authService *auth.Service) {
	handler := NewUserHandler(authService)

	apiGroup.POST("/users/register", handler.Register)
	apiGroup.POST("/users/login", handler.Login)
}
