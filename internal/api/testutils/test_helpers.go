package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fundverse/fundverse-server/internal/api"
	"github.com/fundverse/fundverse-server/internal/clients"
	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
	"github.com/fundverse/fundverse-server/internal/service"
)

const testJWTSecret = "test-secret-key"

// TestContext holds all dependencies for API tests, built on the in-memory
// repository and an in-memory blob store.
type TestContext struct {
	Router     *gin.Engine
	Repository repository.Repository
	Blobs      *repository.BlobStore
	Controller *FakeController
	Minter     *FakeMinter

	Campaigns   *service.CampaignService
	Payments    *service.PaymentService
	Investments *service.InvestmentService

	AdminID    string
	AdminJWT   string
	TestUserID string
	TestUserJWT string
}

// FakeController records CreateDeal calls and hands out sequential deal ids.
type FakeController struct {
	mu     sync.Mutex
	nextID int64
	Calls  []string
	Err    error
}

func (f *FakeController) CreateDeal(ctx context.Context, startupID string, equityPercent uint8, totalRaise, fractionPrice int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	f.nextID++
	f.Calls = append(f.Calls, startupID)
	return f.nextID, nil
}

// FakeMinter records MintCertificate calls and hands out sequential token ids.
type FakeMinter struct {
	mu     sync.Mutex
	nextID int64
	Calls  []clients.MintRequest
	Err    error
}

func (f *FakeMinter) MintCertificate(ctx context.Context, req clients.MintRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	f.nextID++
	f.Calls = append(f.Calls, req)
	return f.nextID, nil
}

func (f *FakeMinter) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// SetupTestContext creates a full router with hermetic dependencies. The
// first seeded user is an admin, the second a plain user.
func SetupTestContext(t *testing.T) *TestContext {
	repo := repository.NewMemoryRepository()

	blobs, err := repository.NewBlobStore("")
	require.NoError(t, err, "failed to open in-memory blob store")
	t.Cleanup(func() { blobs.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	controller := &FakeController{}
	minter := &FakeMinter{}

	authSvc := service.NewAuthService(repo, testJWTSecret)
	accessSvc := service.NewAccessService(repo)
	campaignSvc := service.NewCampaignService(repo, accessSvc, logger)
	documentSvc := service.NewDocumentService(repo, blobs, time.Hour, logger)
	reviewSvc := service.NewReviewService(repo, accessSvc, logger)
	paymentSvc := service.NewPaymentService(repo, accessSvc, logger)
	investmentSvc := service.NewInvestmentService(repo, accessSvc, paymentSvc, controller, minter, logger)

	handler := api.NewHandler(authSvc, accessSvc, campaignSvc, documentSvc, reviewSvc, paymentSvc, investmentSvc, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(testJWTSecret))
		c.Next()
	})
	handler.SetupRoutes(router)

	adminID, adminJWT := SeedUser(t, repo, "admin@example.com", models.RoleAdmin)
	userID, userJWT := SeedUser(t, repo, "user@example.com", models.RoleUser)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Blobs:       blobs,
		Controller:  controller,
		Minter:      minter,
		Campaigns:   campaignSvc,
		Payments:    paymentSvc,
		Investments: investmentSvc,
		AdminID:     adminID,
		AdminJWT:    adminJWT,
		TestUserID:  userID,
		TestUserJWT: userJWT,
	}
}

// SeedUser creates a user with the given role and returns its id and a
// signed token.
func SeedUser(t *testing.T, repo repository.Repository, email string, role models.Role) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      "Test User",
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err, "failed to seed user")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	tokenString, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err, "failed to sign token")

	return user.ID, tokenString
}

// SeedCampaign creates a campaign directly through the repository and
// returns its id.
func SeedCampaign(t *testing.T, repo repository.Repository, goal int64) int64 {
	campaign := &models.Campaign{
		Title:       "Solar Microgrid",
		Description: "Community-owned solar microgrid",
		FundingGoal: goal,
		Goal:        goal,
		LegalEntity: "Solar Microgrid Pty Ltd",
		ContactInfo: "founder@microgrid.example",
		Category:    "energy",
		Status:      "pending",
		EndDate:     time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	err := repo.CreateCampaign(context.Background(), campaign)
	require.NoError(t, err, "failed to seed campaign")
	return campaign.ID
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
