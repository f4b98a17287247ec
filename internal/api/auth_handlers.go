package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// SignUp handles user registration
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	resp, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles user authentication
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
