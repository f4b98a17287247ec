package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fundverse/fundverse-server/internal/clients"
	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

// InvestmentService orchestrates deal creation against the remote controller
// and certificate minting for verified payments. Local state is written only
// after the remote call succeeds; a remote failure leaves no local trace.
type InvestmentService struct {
	repo       repository.Repository
	access     *AccessService
	payments   *PaymentService
	controller clients.DealController
	minter     clients.CertificateMinter
	logger     *logrus.Logger
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(repo repository.Repository, access *AccessService, payments *PaymentService, controller clients.DealController, minter clients.CertificateMinter, logger *logrus.Logger) *InvestmentService {
	return &InvestmentService{
		repo:       repo,
		access:     access,
		payments:   payments,
		controller: controller,
		minter:     minter,
		logger:     logger,
	}
}

// CreateSpvDeal asks the controller to open a deal for a campaign, then links
// the returned deal id locally. The campaign is re-read after the remote call
// returns; it may have been mutated while the call was in flight.
func (s *InvestmentService) CreateSpvDeal(ctx context.Context, callerID string, req *models.CreateSpvDealRequest) (int64, error) {
	if err := s.access.EnsureAdminOrInnovator(ctx, callerID); err != nil {
		return 0, err
	}
	if req.EquityPercent == 0 || req.EquityPercent > 100 {
		return 0, models.ErrInvalidInput("equity percent must be between 1 and 100")
	}
	if req.TotalRaise <= 0 || req.FractionPrice <= 0 {
		return 0, models.ErrInvalidInput("total raise and fraction price must be greater than zero")
	}

	campaign, err := s.repo.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return 0, fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return 0, models.ErrNotFound("campaign %d not found", req.CampaignID)
	}

	startupID := fmt.Sprintf("campaign_%d", req.CampaignID)
	dealID, err := s.controller.CreateDeal(ctx, startupID, req.EquityPercent, req.TotalRaise, req.FractionPrice)
	if err != nil {
		s.logger.WithError(err).WithField("campaignId", req.CampaignID).Error("deal creation failed")
		return 0, err
	}

	// The campaign may have been deleted while the remote call was pending.
	campaign, err = s.repo.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return 0, fmt.Errorf("error re-reading campaign: %w", err)
	}
	if campaign == nil {
		return 0, models.ErrNotFound("campaign %d no longer exists, deal %d is orphaned", req.CampaignID, dealID)
	}

	if err := s.repo.LinkCampaignDeal(ctx, req.CampaignID, dealID); err != nil {
		return 0, fmt.Errorf("error linking campaign deal: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"campaignId": req.CampaignID,
		"dealId":     dealID,
	}).Info("spv deal created")

	return dealID, nil
}

// LinkCampaignToSpv records an existing deal id against a campaign without
// calling the controller. Admin only.
func (s *InvestmentService) LinkCampaignToSpv(ctx context.Context, callerID string, campaignID, dealID int64) error {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return models.ErrNotFound("campaign %d not found", campaignID)
	}
	if err := s.repo.LinkCampaignDeal(ctx, campaignID, dealID); err != nil {
		return fmt.Errorf("error linking campaign deal: %w", err)
	}
	return nil
}

// GetSpvDealsForCampaign returns the deal ids linked to a campaign.
func (s *InvestmentService) GetSpvDealsForCampaign(ctx context.Context, campaignID int64) ([]int64, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return nil, models.ErrNotFound("campaign %d not found", campaignID)
	}
	return s.repo.GetCampaignDeals(ctx, campaignID)
}

// CompleteInvestment mints the ownership certificate for a verified payment.
// Minting is idempotent per (spv, deal, owner): a repeat call returns the
// token already minted instead of minting twice.
func (s *InvestmentService) CompleteInvestment(ctx context.Context, callerID string, paymentID int64) (int64, error) {
	verification, err := s.repo.GetPaymentVerification(ctx, paymentID)
	if err != nil {
		return 0, fmt.Errorf("error getting payment verification: %w", err)
	}
	if verification == nil {
		return 0, models.ErrNotFound("payment %d not found", paymentID)
	}
	if verification.Investor != callerID {
		return 0, models.ErrNotAuthorized("payment %d does not belong to caller", paymentID)
	}
	if verification.Status != models.PaymentVerified {
		return 0, models.ErrInvalidInput("payment %d is %s, only verified payments can complete", paymentID, verification.Status)
	}
	if verification.TokenID != nil {
		return *verification.TokenID, nil
	}

	if record, err := s.repo.GetMintRecord(ctx, verification.SpvID, verification.DealID, callerID); err != nil {
		return 0, fmt.Errorf("error getting mint record: %w", err)
	} else if record != nil {
		if err := s.attachToken(ctx, paymentID, record.TokenID); err != nil {
			return 0, err
		}
		return record.TokenID, nil
	}

	tokenID, err := s.minter.MintCertificate(ctx, clients.MintRequest{
		Owner:          callerID,
		SpvID:          verification.SpvID,
		DealID:         verification.DealID,
		Amount:         verification.Amount,
		Fractions:      verification.Fractions,
		IdempotencyKey: fmt.Sprintf("payment_%d", verification.ID),
	})
	if err != nil {
		s.logger.WithError(err).WithField("paymentId", paymentID).Error("certificate minting failed")
		return 0, err
	}

	if err := s.repo.RecordMint(ctx, &models.MintRecord{
		SpvID:   verification.SpvID,
		DealID:  verification.DealID,
		Owner:   callerID,
		TokenID: tokenID,
	}); err != nil {
		return 0, fmt.Errorf("error recording mint: %w", err)
	}
	if err := s.attachToken(ctx, paymentID, tokenID); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"paymentId": paymentID,
		"tokenId":   tokenID,
		"investor":  callerID,
	}).Info("investment completed")

	return tokenID, nil
}

// attachToken re-reads the verification before writing the token id. The
// verification may have been settled while the mint call was in flight, and
// that transition must not be overwritten by a stale snapshot.
func (s *InvestmentService) attachToken(ctx context.Context, paymentID, tokenID int64) error {
	verification, err := s.repo.GetPaymentVerification(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("error re-reading payment verification: %w", err)
	}
	if verification == nil {
		return models.ErrNotFound("payment %d not found", paymentID)
	}
	verification.TokenID = &tokenID
	if err := s.repo.UpdatePaymentVerification(ctx, verification); err != nil {
		return fmt.Errorf("error updating payment verification: %w", err)
	}
	return nil
}
