package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habita/auth/internal/models"
	"habita/auth/internal/repository"
	"habita/auth/internal/service"
)

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h HandlerSet) Profile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	user, err := h.userService.Profile(c.Request.Context(), caller, c.Param("id"))
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		h.log.Error().Err(err).Msg("profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"user_data": profileResponse{
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		}})
	}
}

type memberRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) RegisterMember(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.userService.RegisterMember(c.Request.Context(), caller, c.Param("id_inmobiliaria"), service.MemberInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
	case errors.Is(err, repository.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"message": "User or email already exists"})
	case err != nil:
		h.log.Error().Err(err).Msg("register member failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Member registered successfully"})
	}
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	err := h.userService.Delete(c.Request.Context(), caller, c.Param("id"))
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		h.log.Error().Err(err).Msg("delete user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

type updateRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Role           *string `json:"role"`
	InmobiliariaID *string `json:"id_inmobiliaria"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	input := service.UpdateInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		InmobiliariaID: req.InmobiliariaID,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	err := h.userService.Update(c.Request.Context(), caller, c.Param("id"), input)
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
	case err != nil:
		// NotFound and uniqueness conflicts surface as a store
		// failure here, matching the update contract.
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	users, err := h.userService.ListAll(c.Request.Context(), caller)
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case err != nil:
		h.log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"users": toUserResponses(users)})
	}
}

func (h HandlerSet) ListUsersByInmobiliaria(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
		return
	}

	users, err := h.userService.ListByInmobiliaria(c.Request.Context(), caller, c.Param("id_inmobiliaria"))
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case err != nil:
		h.log.Error().Err(err).Msg("list by inmobiliaria failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"users": toUserResponses(users)})
	}
}
