package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// RegisterPaymentMethod validates, masks and stores a payment method
func (h *Handler) RegisterPaymentMethod(c *gin.Context) {
	var req models.RegisterPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	id, err := h.payments.RegisterPaymentMethod(c.Request.Context(), callerID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: id})
}

// ListPaymentMethods returns the caller's active methods
func (h *Handler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.payments.GetUserPaymentMethods(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, methods)
}

// DeactivatePaymentMethod soft-deletes one of the caller's methods
func (h *Handler) DeactivatePaymentMethod(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.payments.DeactivatePaymentMethod(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// InitiatePayment opens a pending payment verification
func (h *Handler) InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	id, err := h.payments.InitiatePayment(c.Request.Context(), callerID(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: id})
}

// ListPayments returns the caller's payment verifications
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.payments.GetInvestorPayments(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayment returns one of the caller's payment verifications
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPaymentVerification(c.Request.Context(), callerID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// VerifyPayment settles a pending payment as verified
func (h *Handler) VerifyPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.VerifyPayment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// FailPayment settles a pending payment as failed
func (h *Handler) FailPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.payments.FailPayment(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// RefundPayment settles a verified payment as refunded
func (h *Handler) RefundPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.payments.RefundPayment(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}
