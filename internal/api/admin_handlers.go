package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

type grantRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// AddAdmin grants the admin role to a user
func (h *Handler) AddAdmin(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.access.AddAdmin(c.Request.Context(), callerID(c), req.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// RemoveAdmin revokes the admin role. Removing the last admin is refused.
func (h *Handler) RemoveAdmin(c *gin.Context) {
	if err := h.access.RemoveAdmin(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// AddInnovator grants the innovator role to a user
func (h *Handler) AddInnovator(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.access.AddInnovator(c.Request.Context(), callerID(c), req.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// ListInnovators returns the users holding the innovator role, admin only
func (h *Handler) ListInnovators(c *gin.Context) {
	innovators, err := h.access.ListInnovators(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, innovators)
}

// RemoveInnovator revokes the innovator role
func (h *Handler) RemoveInnovator(c *gin.Context) {
	if err := h.access.RemoveInnovator(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// SetRole sets a user's role directly
func (h *Handler) SetRole(c *gin.Context) {
	var req models.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.access.SetRole(c.Request.Context(), callerID(c), c.Param("id"), req.Role); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// ListUsers returns the user directory, admin only
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.access.ListUsers(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// MyRole returns the caller's effective role
func (h *Handler) MyRole(c *gin.Context) {
	role, err := h.access.RoleOf(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "role": role})
}
