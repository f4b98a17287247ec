package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

// Campaign lifecycle tags.
const (
	CampaignStatusPending         = "pending"
	CampaignStatusPendingApproval = "pending_approval"
	CampaignStatusApproved        = "approved"
)

// CampaignService owns campaign records and the three-channel funding ledger.
// Contributions are credited through the repository in a single transaction
// per call, so the channel counters and the campaign's raised amount cannot
// diverge.
type CampaignService struct {
	repo   repository.Repository
	access *AccessService
	logger *logrus.Logger
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(repo repository.Repository, access *AccessService, logger *logrus.Logger) *CampaignService {
	return &CampaignService{repo: repo, access: access, logger: logger}
}

// CreateCampaign validates and persists a new campaign, returning its id.
func (s *CampaignService) CreateCampaign(ctx context.Context, req models.CreateCampaignRequest) (int64, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.LegalEntity) == "" ||
		strings.TrimSpace(req.ContactInfo) == "" ||
		strings.TrimSpace(req.Category) == "" {
		return 0, models.ErrInvalidInput("all fields must be provided")
	}
	if req.FundingGoal <= 0 || req.Goal <= 0 {
		return 0, models.ErrInvalidInput("funding goal and goal must be greater than zero")
	}

	campaign := &models.Campaign{
		Title:                req.Title,
		Description:          req.Description,
		FundingGoal:          req.FundingGoal,
		LegalEntity:          req.LegalEntity,
		ContactInfo:          req.ContactInfo,
		Category:             req.Category,
		BusinessRegistration: req.BusinessRegistration,
		Status:               CampaignStatusPending,
		Goal:                 req.Goal,
		EndDate:              req.EndDate,
	}

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return 0, fmt.Errorf("error creating campaign: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"campaignId": campaign.ID,
		"goal":       campaign.Goal,
	}).Info("campaign created")

	return campaign.ID, nil
}

// GetCampaign returns a campaign by id.
func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return nil, models.ErrNotFound("campaign %d not found", id)
	}
	return campaign, nil
}

// toCard builds the listing projection of a campaign.
func toCard(c *models.Campaign, now time.Time) models.CampaignCard {
	daysLeft := (c.EndDate - now.Unix()) / 86400
	return models.CampaignCard{
		ID:           c.ID,
		Title:        c.Title,
		Category:     c.Category,
		AmountRaised: c.AmountRaised,
		Goal:         c.Goal,
		EndDate:      c.EndDate,
		DaysLeft:     daysLeft,
	}
}

// GetCampaignCards returns all campaign cards, optionally filtered to active
// ("active") or ended ("ended") campaigns.
func (s *CampaignService) GetCampaignCards(ctx context.Context, filter string) ([]models.CampaignCard, error) {
	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}

	now := time.Now().UTC()
	cards := make([]models.CampaignCard, 0, len(campaigns))
	for i := range campaigns {
		card := toCard(&campaigns[i], now)
		ended := card.DaysLeft < 0 || campaigns[i].EndDate < now.Unix()
		switch filter {
		case "active":
			if ended {
				continue
			}
		case "ended":
			if !ended {
				continue
			}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ReceiveNativeContribution credits the native-currency channel.
func (s *CampaignService) ReceiveNativeContribution(ctx context.Context, campaignID int64, contributionID string, amount int64) error {
	return s.contribute(ctx, &models.Contribution{
		ID:         contributionID,
		CampaignID: campaignID,
		Channel:    models.ChannelNative,
		Amount:     amount,
	})
}

// ProcessTraditionalPayment credits the traditional-payment channel. The
// payment method must exist and be active before anything is credited.
func (s *CampaignService) ProcessTraditionalPayment(ctx context.Context, campaignID int64, contributionID string, paymentMethodID, amount int64) error {
	method, err := s.repo.GetPaymentMethod(ctx, paymentMethodID)
	if err != nil {
		return fmt.Errorf("error getting payment method: %w", err)
	}
	if method == nil {
		return models.ErrNotFound("payment method %d not found", paymentMethodID)
	}
	if !method.IsActive {
		return models.ErrInvalidInput("payment method %d is not active", paymentMethodID)
	}

	return s.contribute(ctx, &models.Contribution{
		ID:              contributionID,
		CampaignID:      campaignID,
		Channel:         models.ChannelTraditional,
		Amount:          amount,
		PaymentMethodID: &paymentMethodID,
	})
}

// ReceiveSpvContribution credits the SPV equity channel.
func (s *CampaignService) ReceiveSpvContribution(ctx context.Context, campaignID int64, contributionID string, amount int64) error {
	return s.contribute(ctx, &models.Contribution{
		ID:         contributionID,
		CampaignID: campaignID,
		Channel:    models.ChannelSpv,
		Amount:     amount,
	})
}

func (s *CampaignService) contribute(ctx context.Context, contribution *models.Contribution) error {
	if contribution.Amount <= 0 {
		return models.ErrInvalidInput("contribution amount must be greater than zero")
	}
	if strings.TrimSpace(contribution.ID) == "" {
		return models.ErrInvalidInput("contribution id is required")
	}

	campaign, err := s.repo.GetCampaign(ctx, contribution.CampaignID)
	if err != nil {
		return fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return models.ErrNotFound("campaign %d not found", contribution.CampaignID)
	}

	applied, err := s.repo.AddContribution(ctx, contribution)
	if err != nil {
		return fmt.Errorf("error adding contribution: %w", err)
	}

	entry := s.logger.WithFields(logrus.Fields{
		"campaignId":     contribution.CampaignID,
		"channel":        contribution.Channel,
		"amount":         contribution.Amount,
		"contributionId": contribution.ID,
	})
	if !applied {
		entry.Warn("contribution replay ignored")
		return nil
	}
	entry.Info("contribution credited")
	return nil
}

// GetUnifiedFunding aggregates the three channel counters for a campaign.
// The total is recomputed from the components on every call so it can never
// drift from them.
func (s *CampaignService) GetUnifiedFunding(ctx context.Context, campaignID int64) (*models.UnifiedFunding, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.GetChannelTotals(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("error getting channel totals: %w", err)
	}

	native := totals[models.ChannelNative]
	traditional := totals[models.ChannelTraditional]
	spv := totals[models.ChannelSpv]

	return &models.UnifiedFunding{
		Goal:              campaign.Goal,
		NativeRaised:      native,
		TraditionalRaised: traditional,
		SpvRaised:         spv,
		TotalRaised:       native + traditional + spv,
	}, nil
}

// SubmitForApproval moves a campaign into the pending-approval state.
func (s *CampaignService) SubmitForApproval(ctx context.Context, campaignID int64) error {
	if _, err := s.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	return s.repo.UpdateCampaignStatus(ctx, campaignID, CampaignStatusPendingApproval)
}

// ApproveCampaign marks a campaign approved. Admin only.
func (s *CampaignService) ApproveCampaign(ctx context.Context, callerID string, campaignID int64) error {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	if _, err := s.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	return s.repo.UpdateCampaignStatus(ctx, campaignID, CampaignStatusApproved)
}
