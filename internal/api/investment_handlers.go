package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// CreateSpvDeal creates a deal on the remote controller and links it to the
// campaign
func (h *Handler) CreateSpvDeal(c *gin.Context) {
	var req models.CreateSpvDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	dealID, err := h.investments.CreateSpvDeal(c.Request.Context(), callerID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: dealID})
}

// LinkSpvDeal records an existing deal id against a campaign, admin only
func (h *Handler) LinkSpvDeal(c *gin.Context) {
	var req models.LinkSpvDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.investments.LinkCampaignToSpv(c.Request.Context(), callerID(c), req.CampaignID, req.DealID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// GetSpvDeals returns the deal ids linked to a campaign
func (h *Handler) GetSpvDeals(c *gin.Context) {
	campaignID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	deals, err := h.investments.GetSpvDealsForCampaign(c.Request.Context(), campaignID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deals)
}

// CompleteInvestment mints the certificate for a verified payment
func (h *Handler) CompleteInvestment(c *gin.Context) {
	paymentID, ok := h.pathID(c, "paymentId")
	if !ok {
		return
	}

	tokenID, err := h.investments.CompleteInvestment(c.Request.Context(), callerID(c), paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payment, err := h.payments.GetPaymentVerification(c.Request.Context(), callerID(c), paymentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CompleteInvestmentResponse{
		Status:    "success",
		PaymentID: paymentID,
		TokenID:   tokenID,
		Fractions: payment.Fractions,
	})
}
