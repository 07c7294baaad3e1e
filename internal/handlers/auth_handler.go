package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/middleware"
	"klarpakke/internal/services"
)

// AuthHandler handles operator registration and login.
type AuthHandler struct {
	userService services.UserServicer
	jwtSecret   string
	jwtExpiry   time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

// RegisterRequest represents the request payload for registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles operator account creation
// @Summary     Register an operator
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Credentials"
// @Success     201 {object} map[string]interface{} "Created user"
// @Failure     400 {object} map[string]interface{} "Invalid input"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles operator login and issues an access token
// @Summary     Log in
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} map[string]interface{} "Token and user"
// @Failure     401 {object} map[string]interface{} "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateAccessToken(user, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetProfile returns the authenticated operator's profile
// @Summary     Get profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
