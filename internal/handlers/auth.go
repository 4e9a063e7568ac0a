package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"habita/auth/internal/middleware"
	"habita/auth/internal/models"
	"habita/auth/internal/repository"
	"habita/auth/internal/service"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
	case errors.Is(err, repository.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"message": "User or email already exists"})
	case err != nil:
		h.log.Error().Err(err).Msg("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Browser-session cookie: the redis TTL is the only expiry
	// authority, so an active user is never cut off by a client-side
	// clock that started at login.
	h.setSessionCookie(c, result.SessionID, 0)

	c.JSON(http.StatusOK, gin.H{
		"message":       "Logged in successfully",
		"access_token":  result.Token,
		"token_content": result.Claims,
		"user":          result.Claims,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)

	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h HandlerSet) SessionStatus(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("This is the current user: %s", caller.Username),
		"logged_in": true,
	})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, sessionID string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(
		h.cfg.Security.CookieName,
		sessionID,
		maxAge,
		"/",
		"",
		h.cfg.Security.CookieSecure,
		true,
	)
}
