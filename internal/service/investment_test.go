package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/clients"
	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

type stubMinter struct {
	nextToken int64
	calls     int
	onMint    func()
}

func (m *stubMinter) MintCertificate(ctx context.Context, req clients.MintRequest) (int64, error) {
	m.calls++
	if m.onMint != nil {
		m.onMint()
	}
	m.nextToken++
	return m.nextToken, nil
}

type stubController struct {
	nextDeal int64
}

func (c *stubController) CreateDeal(ctx context.Context, startupID string, equityPercent uint8, totalRaise, fractionPrice int64) (int64, error) {
	c.nextDeal++
	return c.nextDeal, nil
}

type investmentFixture struct {
	repo        repository.Repository
	payments    *PaymentService
	investments *InvestmentService
	minter      *stubMinter
	adminID     string
	investorID  string
}

func newInvestmentFixture(t *testing.T) *investmentFixture {
	t.Helper()
	repo := repository.NewMemoryRepository()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	access := NewAccessService(repo)
	payments := NewPaymentService(repo, access, logger)
	minter := &stubMinter{}
	investments := NewInvestmentService(repo, access, payments, &stubController{}, minter, logger)

	return &investmentFixture{
		repo:        repo,
		payments:    payments,
		investments: investments,
		minter:      minter,
		adminID:     seedUser(t, repo, models.RoleAdmin),
		investorID:  seedUser(t, repo, models.RoleUser),
	}
}

// verifiedPayment registers a wallet method for the investor and walks a
// payment through initiation and verification.
func verifiedPayment(t *testing.T, fx *investmentFixture, amount int64) int64 {
	t.Helper()
	ctx := context.Background()

	methodID, err := fx.payments.RegisterPaymentMethod(ctx, fx.investorID, &models.RegisterPaymentMethodRequest{
		MethodType:        "wallet",
		Provider:          "testpay",
		AccountIdentifier: "123456789",
		Currency:          "AUD",
	})
	require.NoError(t, err)

	paymentID, err := fx.payments.InitiatePayment(ctx, fx.investorID, &models.InitiatePaymentRequest{
		SpvID:           1,
		DealID:          1,
		Amount:          amount,
		PaymentMethodID: methodID,
	})
	require.NoError(t, err)

	_, err = fx.payments.VerifyPayment(ctx, paymentID)
	require.NoError(t, err)
	return paymentID
}

func TestCompleteInvestmentKeepsSettlementDuringMint(t *testing.T) {
	fx := newInvestmentFixture(t)
	ctx := context.Background()

	paymentID := verifiedPayment(t, fx, 5000)

	// An operator refund lands while the mint call is in flight. The token
	// write must not roll the verification back to verified.
	fx.minter.onMint = func() {
		require.NoError(t, fx.payments.RefundPayment(ctx, fx.adminID, paymentID))
	}

	tokenID, err := fx.investments.CompleteInvestment(ctx, fx.investorID, paymentID)
	require.NoError(t, err)
	assert.NotZero(t, tokenID)

	verification, err := fx.repo.GetPaymentVerification(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, verification.Status)
	require.NotNil(t, verification.TokenID)
	assert.Equal(t, tokenID, *verification.TokenID)
}

func TestSettlementIsAdminOnly(t *testing.T) {
	fx := newInvestmentFixture(t)
	ctx := context.Background()

	paymentID := verifiedPayment(t, fx, 3000)

	// The investor owns the payment, but settlement is an operator action.
	err := fx.payments.RefundPayment(ctx, fx.investorID, paymentID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotAuthorized, models.CodeOf(err))

	verification, err := fx.repo.GetPaymentVerification(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentVerified, verification.Status)

	require.NoError(t, fx.payments.RefundPayment(ctx, fx.adminID, paymentID))

	verification, err = fx.repo.GetPaymentVerification(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, verification.Status)
}
