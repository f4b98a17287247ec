package repository

import (
	"context"

	"github.com/fundverse/fundverse-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
	// DemoteAdmin moves an admin to another role, refusing the demotion that
	// would leave the admin set empty. The count and the update are atomic.
	DemoteAdmin(ctx context.Context, id string, role models.Role) error
	CountAdmins(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)

	// Campaign operations. Ids are assigned monotonically by the store and
	// never reused.
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error
	GetCampaign(ctx context.Context, id int64) (*models.Campaign, error)
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id int64, status string) error

	// Funding operations. AddContribution credits the channel counter and the
	// campaign's raised amount in one transaction; it reports false without
	// crediting when the contribution id has been seen before.
	AddContribution(ctx context.Context, contribution *models.Contribution) (bool, error)
	GetChannelTotals(ctx context.Context, campaignID int64) (map[models.FundingChannel]int64, error)

	// Document operations. FinalizeDocument marks the document reconstructed,
	// appends it to the owning campaign's doc list and bumps the campaign's
	// updated time, all atomically.
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	FinalizeDocument(ctx context.Context, docID int64, size int64) error

	// Idea operations
	CreateIdea(ctx context.Context, idea *models.Idea) error
	GetIdea(ctx context.Context, id int64) (*models.Idea, error)
	UpdateIdeaStatus(ctx context.Context, id int64, status models.ReviewStatus) error
	ListIdeas(ctx context.Context) ([]models.Idea, error)

	// Project operations
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	UpdateProjectReview(ctx context.Context, project *models.Project) error
	ListProjects(ctx context.Context, status *models.ReviewStatus) ([]models.Project, error)
	ListProjectsBySubmitter(ctx context.Context, userID string) ([]models.Project, error)

	// Payment method operations
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error)
	ListUserPaymentMethods(ctx context.Context, owner string) ([]models.PaymentMethod, error)
	DeactivatePaymentMethod(ctx context.Context, id int64) error

	// Payment verification operations
	CreatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error
	GetPaymentVerification(ctx context.Context, id int64) (*models.PaymentVerification, error)
	UpdatePaymentVerification(ctx context.Context, verification *models.PaymentVerification) error
	ListInvestorPayments(ctx context.Context, investor string) ([]models.PaymentVerification, error)

	// SPV deal mapping operations
	LinkCampaignDeal(ctx context.Context, campaignID, dealID int64) error
	GetCampaignDeals(ctx context.Context, campaignID int64) ([]int64, error)

	// Certificate mint records
	GetMintRecord(ctx context.Context, spvID, dealID int64, owner string) (*models.MintRecord, error)
	RecordMint(ctx context.Context, record *models.MintRecord) error
}
