package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// SubmitIdea handles idea submission
func (h *Handler) SubmitIdea(c *gin.Context) {
	var req models.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	id, err := h.reviews.SubmitIdea(c.Request.Context(), callerID(c), req.Title, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: id})
}

// ListIdeas returns all ideas
func (h *Handler) ListIdeas(c *gin.Context) {
	ideas, err := h.reviews.ListIdeas(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ideas)
}

// ApproveIdea approves a pending idea, admin only
func (h *Handler) ApproveIdea(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.ApproveIdea(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReviewResultResponse{Status: "success", ID: id, Result: models.StatusApproved})
}

// RejectIdea rejects a pending idea, admin only
func (h *Handler) RejectIdea(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.RejectIdea(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReviewResultResponse{Status: "success", ID: id, Result: models.StatusRejected})
}

// SubmitProject handles full project submission
func (h *Handler) SubmitProject(c *gin.Context) {
	var req models.SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	id, err := h.reviews.SubmitProject(c.Request.Context(), callerID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: id})
}

// ListProjects returns projects, optionally filtered by ?status=
func (h *Handler) ListProjects(c *gin.Context) {
	var status *models.ReviewStatus
	if s := c.Query("status"); s != "" {
		rs := models.ReviewStatus(s)
		status = &rs
	}

	projects, err := h.reviews.ListProjects(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// ListMyProjects returns the caller's submissions
func (h *Handler) ListMyProjects(c *gin.Context) {
	projects, err := h.reviews.ListProjectsBySubmitter(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject returns one project
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.reviews.GetProject(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// ReviewProject applies one review transition, admin only
func (h *Handler) ReviewProject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.ReviewProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}
	project, err := h.reviews.ReviewProject(c.Request.Context(), callerID(c), id, req.Status, notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ReviewResultResponse{Status: "success", ID: id, Result: project.Status})
}
