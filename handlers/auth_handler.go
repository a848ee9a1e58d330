package handlers

import (
	"errors"
	"net/http"

	"fitplanner-backend/logger"
	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and identity lookups
type AuthHandler struct {
	credentials *service.CredentialService
	tokens      *service.TokenService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(credentials *service.CredentialService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
	}
}

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	user, err := h.credentials.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use."})
		case errors.Is(err, service.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address."})
		case errors.Is(err, service.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long."})
		default:
			logger.Error("registration failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error (auth)."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	user, err := h.credentials.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		case errors.Is(err, service.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		default:
			logger.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error (auth)."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   token,
		"user":    user,
	})
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.credentials.FindUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		logger.Error("failed to load current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
