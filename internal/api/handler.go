package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/service"
)

// Handler holds the services backing the HTTP API
type Handler struct {
	auth        *service.AuthService
	access      *service.AccessService
	campaigns   *service.CampaignService
	documents   *service.DocumentService
	reviews     *service.ReviewService
	payments    *service.PaymentService
	investments *service.InvestmentService
	logger      *logrus.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	auth *service.AuthService,
	access *service.AccessService,
	campaigns *service.CampaignService,
	documents *service.DocumentService,
	reviews *service.ReviewService,
	payments *service.PaymentService,
	investments *service.InvestmentService,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		access:      access,
		campaigns:   campaigns,
		documents:   documents,
		reviews:     reviews,
		payments:    payments,
		investments: investments,
		logger:      logger,
	}
}

// SetupRoutes configures all API routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware())
	{
		protected.POST("/campaigns", h.CreateCampaign)
		protected.GET("/campaigns/cards", h.GetCampaignCards)
		protected.GET("/campaigns/:id", h.GetCampaign)
		protected.GET("/campaigns/:id/funding", h.GetUnifiedFunding)
		protected.POST("/campaigns/:id/contributions/native", h.ContributeNative)
		protected.POST("/campaigns/:id/contributions/traditional", h.ContributeTraditional)
		protected.POST("/campaigns/:id/contributions/spv", h.ContributeSpv)
		protected.POST("/campaigns/:id/submit", h.SubmitCampaign)
		protected.POST("/campaigns/:id/approve", h.ApproveCampaign)

		protected.POST("/campaigns/:id/documents", h.UploadDoc)
		protected.POST("/campaigns/:id/documents/uploads", h.StartChunkedUpload)
		protected.PUT("/documents/uploads/:docId/chunks", h.UploadChunk)
		protected.GET("/documents/:id", h.GetDoc)

		protected.POST("/ideas", h.SubmitIdea)
		protected.GET("/ideas", h.ListIdeas)
		protected.POST("/ideas/:id/approve", h.ApproveIdea)
		protected.POST("/ideas/:id/reject", h.RejectIdea)

		protected.POST("/projects", h.SubmitProject)
		protected.GET("/projects", h.ListProjects)
		protected.GET("/projects/mine", h.ListMyProjects)
		protected.GET("/projects/:id", h.GetProject)
		protected.POST("/projects/:id/review", h.ReviewProject)

		protected.POST("/payment-methods", h.RegisterPaymentMethod)
		protected.GET("/payment-methods", h.ListPaymentMethods)
		protected.DELETE("/payment-methods/:id", h.DeactivatePaymentMethod)

		protected.POST("/payments", h.InitiatePayment)
		protected.GET("/payments", h.ListPayments)
		protected.GET("/payments/:id", h.GetPayment)
		protected.POST("/payments/:id/verify", h.VerifyPayment)
		protected.POST("/payments/:id/fail", h.FailPayment)
		protected.POST("/payments/:id/refund", h.RefundPayment)

		protected.POST("/spv/deals", h.CreateSpvDeal)
		protected.POST("/spv/deals/link", h.LinkSpvDeal)
		protected.GET("/campaigns/:id/spv-deals", h.GetSpvDeals)
		protected.POST("/investments/:paymentId/complete", h.CompleteInvestment)

		admin := protected.Group("/admin")
		{
			admin.POST("/admins", h.AddAdmin)
			admin.DELETE("/admins/:id", h.RemoveAdmin)
			admin.POST("/innovators", h.AddInnovator)
			admin.GET("/innovators", h.ListInnovators)
			admin.DELETE("/innovators/:id", h.RemoveInnovator)
			admin.PUT("/users/:id/role", h.SetRole)
			admin.GET("/users", h.ListUsers)
			admin.GET("/role", h.MyRole)
		}
	}
}

func httpStatusFor(code models.ErrorCode) int {
	switch code {
	case models.CodeNotAuthorized:
		return http.StatusUnauthorized
	case models.CodeInsufficientPermissions:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeInvalidInput, models.CodeInvalidStatusTransition,
		models.CodeIncompleteUpload, models.CodeInvalidChunkIndex:
		return http.StatusBadRequest
	case models.CodeAlreadyProcessed, models.CodeAlreadyExists:
		return http.StatusConflict
	case models.CodeExternalCallFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to an HTTP status via its error code.
// Unclassified errors surface as 500 with the detail kept in the log.
func (h *Handler) respondError(c *gin.Context, err error) {
	code := models.CodeOf(err)
	status := httpStatusFor(code)

	message := err.Error()
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		message = "internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    string(code),
		Message: message,
	})
}

func callerID(c *gin.Context) string {
	return c.GetString("userId")
}

// pathID parses an int64 path parameter, responding 400 itself on failure.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}
