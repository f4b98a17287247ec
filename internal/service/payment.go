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

// FractionPrice is the fixed price of one deal fraction in minor currency
// units. Verified amounts convert to fractions at this rate.
const FractionPrice = 1000

// PaymentService owns payment methods and payment verifications. Raw account
// identifiers never leave RegisterPaymentMethod; only the masked form is
// stored.
type PaymentService struct {
	repo   repository.Repository
	access *AccessService
	logger *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repo repository.Repository, access *AccessService, logger *logrus.Logger) *PaymentService {
	return &PaymentService{repo: repo, access: access, logger: logger}
}

// RegisterPaymentMethod validates the raw account identifier for the method
// type, masks it and stores the masked form.
func (s *PaymentService) RegisterPaymentMethod(ctx context.Context, owner string, req *models.RegisterPaymentMethodRequest) (int64, error) {
	methodType := strings.ToLower(strings.TrimSpace(req.MethodType))
	account := strings.TrimSpace(req.AccountIdentifier)
	if account == "" {
		return 0, models.ErrInvalidInput("account identifier is required")
	}
	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.Currency) == "" {
		return 0, models.ErrInvalidInput("provider and currency are required")
	}

	if err := validateAccount(methodType, account); err != nil {
		return 0, err
	}

	method := &models.PaymentMethod{
		Owner:         owner,
		MethodType:    methodType,
		Provider:      req.Provider,
		MaskedAccount: maskAccount(methodType, account),
		Currency:      req.Currency,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		return 0, fmt.Errorf("error creating payment method: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"methodId":   method.ID,
		"owner":      owner,
		"methodType": methodType,
	}).Info("payment method registered")

	return method.ID, nil
}

func validateAccount(methodType, account string) error {
	switch methodType {
	case "card":
		digits := stripSeparators(account)
		if len(digits) < 13 || len(digits) > 19 || !allDigits(digits) {
			return models.ErrInvalidInput("card number must be 13 to 19 digits")
		}
		if !luhnValid(digits) {
			return models.ErrInvalidInput("card number failed checksum")
		}
	case "wallet":
		if len(account) < 7 || len(account) > 15 || !allDigits(account) {
			return models.ErrInvalidInput("wallet number must be 7 to 15 digits")
		}
	case "bank", "iban":
		if len(account) < 8 || len(account) > 34 || !alphanumeric(account) {
			return models.ErrInvalidInput("account number must be 8 to 34 alphanumeric characters")
		}
	default:
		if len(account) < 4 {
			return models.ErrInvalidInput("account identifier too short")
		}
	}
	return nil
}

// maskAccount keeps only a short suffix of the identifier. Cards keep the
// last 4, wallets the last 3, everything else the last 4; identifiers of 4
// characters or fewer are masked entirely.
func maskAccount(methodType, account string) string {
	if methodType == "card" {
		account = stripSeparators(account)
	}
	if len(account) <= 4 {
		return "****"
	}
	switch methodType {
	case "card":
		return "************" + account[len(account)-4:]
	case "wallet":
		return "******" + account[len(account)-3:]
	default:
		return "****" + account[len(account)-4:]
	}
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func alphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return len(s) > 0
}

// luhnValid reports whether the digit string passes the Luhn check. Every
// second digit from the right is doubled, with doubled values over 9 reduced
// by 9.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// GetUserPaymentMethods returns the caller's active payment methods.
func (s *PaymentService) GetUserPaymentMethods(ctx context.Context, owner string) ([]models.PaymentMethod, error) {
	methods, err := s.repo.ListUserPaymentMethods(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing payment methods: %w", err)
	}
	active := make([]models.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// GetPaymentMethod returns one payment method, owner only.
func (s *PaymentService) GetPaymentMethod(ctx context.Context, callerID string, methodID int64) (*models.PaymentMethod, error) {
	method, err := s.repo.GetPaymentMethod(ctx, methodID)
	if err != nil {
		return nil, fmt.Errorf("error getting payment method: %w", err)
	}
	if method == nil {
		return nil, models.ErrNotFound("payment method %d not found", methodID)
	}
	if method.Owner != callerID {
		return nil, models.ErrNotAuthorized("payment method %d does not belong to caller", methodID)
	}
	return method, nil
}

// DeactivatePaymentMethod soft-deletes a method. Past verifications keep
// referring to it.
func (s *PaymentService) DeactivatePaymentMethod(ctx context.Context, callerID string, methodID int64) error {
	method, err := s.GetPaymentMethod(ctx, callerID, methodID)
	if err != nil {
		return err
	}
	if !method.IsActive {
		return nil
	}
	if err := s.repo.DeactivatePaymentMethod(ctx, methodID); err != nil {
		return fmt.Errorf("error deactivating payment method: %w", err)
	}
	return nil
}

// InitiatePayment opens a Pending verification for an investor against a
// deal. The payment method must belong to the investor and be active.
func (s *PaymentService) InitiatePayment(ctx context.Context, investor string, req *models.InitiatePaymentRequest) (int64, error) {
	if req.Amount <= 0 {
		return 0, models.ErrInvalidInput("amount must be greater than zero")
	}

	method, err := s.repo.GetPaymentMethod(ctx, req.PaymentMethodID)
	if err != nil {
		return 0, fmt.Errorf("error getting payment method: %w", err)
	}
	if method == nil {
		return 0, models.ErrNotFound("payment method %d not found", req.PaymentMethodID)
	}
	if method.Owner != investor {
		return 0, models.ErrNotAuthorized("payment method %d does not belong to caller", req.PaymentMethodID)
	}
	if !method.IsActive {
		return 0, models.ErrInvalidInput("payment method %d is inactive", req.PaymentMethodID)
	}

	verification := &models.PaymentVerification{
		Investor:        investor,
		SpvID:           req.SpvID,
		DealID:          req.DealID,
		Amount:          req.Amount,
		PaymentMethodID: req.PaymentMethodID,
		Status:          models.PaymentPending,
		CreatedAt:       time.Now(),
	}
	if err := s.repo.CreatePaymentVerification(ctx, verification); err != nil {
		return 0, fmt.Errorf("error creating payment verification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"paymentId": verification.ID,
		"investor":  investor,
		"dealId":    req.DealID,
		"amount":    req.Amount,
	}).Info("payment initiated")

	return verification.ID, nil
}

// VerifyPayment marks a pending payment verified and fixes its fraction
// count. A payment already past Pending is reported as processed.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID int64) (*models.PaymentVerification, error) {
	verification, err := s.repo.GetPaymentVerification(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("error getting payment verification: %w", err)
	}
	if verification == nil {
		return nil, models.ErrNotFound("payment %d not found", paymentID)
	}
	if verification.Status != models.PaymentPending {
		return nil, models.ErrAlreadyProcessed("payment %d is already %s", paymentID, verification.Status)
	}

	now := time.Now()
	verification.Status = models.PaymentVerified
	verification.Fractions = verification.Amount / FractionPrice
	verification.VerifiedAt = &now

	if err := s.repo.UpdatePaymentVerification(ctx, verification); err != nil {
		return nil, fmt.Errorf("error updating payment verification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"paymentId": paymentID,
		"fractions": verification.Fractions,
	}).Info("payment verified")

	return verification, nil
}

// FailPayment marks a pending payment failed. Settlement is an operator
// action, admin only.
func (s *PaymentService) FailPayment(ctx context.Context, callerID string, paymentID int64) error {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	return s.settle(ctx, paymentID, models.PaymentPending, models.PaymentFailed)
}

// RefundPayment marks a verified payment refunded. Admin only.
func (s *PaymentService) RefundPayment(ctx context.Context, callerID string, paymentID int64) error {
	if err := s.access.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	return s.settle(ctx, paymentID, models.PaymentVerified, models.PaymentRefunded)
}

func (s *PaymentService) settle(ctx context.Context, paymentID int64, from, to models.PaymentStatus) error {
	verification, err := s.repo.GetPaymentVerification(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("error getting payment verification: %w", err)
	}
	if verification == nil {
		return models.ErrNotFound("payment %d not found", paymentID)
	}
	if verification.Status != from {
		return models.ErrAlreadyProcessed("payment %d is %s, expected %s", paymentID, verification.Status, from)
	}

	verification.Status = to
	if err := s.repo.UpdatePaymentVerification(ctx, verification); err != nil {
		return fmt.Errorf("error updating payment verification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"paymentId": paymentID,
		"status":    to,
	}).Info("payment settled")

	return nil
}

// GetPaymentVerification returns one verification, visible to its investor
// only.
func (s *PaymentService) GetPaymentVerification(ctx context.Context, callerID string, paymentID int64) (*models.PaymentVerification, error) {
	verification, err := s.repo.GetPaymentVerification(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("error getting payment verification: %w", err)
	}
	if verification == nil {
		return nil, models.ErrNotFound("payment %d not found", paymentID)
	}
	if verification.Investor != callerID {
		return nil, models.ErrNotAuthorized("payment %d does not belong to caller", paymentID)
	}
	return verification, nil
}

// GetInvestorPayments returns all of the caller's verifications.
func (s *PaymentService) GetInvestorPayments(ctx context.Context, investor string) ([]models.PaymentVerification, error) {
	return s.repo.ListInvestorPayments(ctx, investor)
}
