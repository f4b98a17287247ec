package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// CreateCampaign handles campaign creation
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	id, err := h.campaigns.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: id})
}

// GetCampaign returns one campaign with its document ids
func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaigns.GetCampaign(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// GetCampaignCards returns campaign summaries, optionally filtered by
// ?status=active|ended
func (h *Handler) GetCampaignCards(c *gin.Context) {
	cards, err := h.campaigns.GetCampaignCards(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetUnifiedFunding returns the per-channel totals of a campaign
func (h *Handler) GetUnifiedFunding(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	funding, err := h.campaigns.GetUnifiedFunding(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, funding)
}

// ContributeNative credits a contribution on the native channel
func (h *Handler) ContributeNative(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.campaigns.ReceiveNativeContribution(c.Request.Context(), id, req.ContributionID, req.Amount); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// ContributeTraditional credits a contribution paid through a registered
// payment method
func (h *Handler) ContributeTraditional(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.campaigns.ProcessTraditionalPayment(c.Request.Context(), id, req.ContributionID, req.PaymentMethodID, req.Amount); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// ContributeSpv credits a contribution on the SPV channel
func (h *Handler) ContributeSpv(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.campaigns.ReceiveSpvContribution(c.Request.Context(), id, req.ContributionID, req.Amount); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// SubmitCampaign moves a campaign into the approval queue
func (h *Handler) SubmitCampaign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.campaigns.SubmitForApproval(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// ApproveCampaign approves a submitted campaign, admin only
func (h *Handler) ApproveCampaign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.campaigns.ApproveCampaign(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}
