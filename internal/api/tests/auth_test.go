package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fundverse/fundverse-server/internal/api/testutils"
	"github.com/fundverse/fundverse-server/internal/models"
)

func TestSignup(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful signup
	signupReq := models.SignUpRequest{
		Email:    "newuser@example.com",
		Password: "Password123",
		Name:     "New User",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 2: Duplicate email
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Invalid request (missing required fields)
	invalidReq := models.SignUpRequest{
		Email: "invalid@example.com",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful login
	loginReq := models.LoginRequest{
		Email:    "user@example.com",
		Password: "testpassword",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		loginReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, testCtx.TestUserID, resp.UserID)

	// Test case 2: Invalid credentials
	invalidLoginReq := models.LoginRequest{
		Email:    "user@example.com",
		Password: "wrongpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		invalidLoginReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: No token
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/campaigns/cards",
		nil,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 2: Malformed token
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/campaigns/cards",
		nil,
		testutils.AuthHeaders("not-a-jwt"),
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Valid token
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/campaigns/cards",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInnovatorListing(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: No innovators yet
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/admin/innovators",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var innovators []models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &innovators))
	assert.Empty(t, innovators)

	// Test case 2: Promoted user shows up in the listing
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/admin/innovators",
		map[string]string{"userId": testCtx.TestUserID},
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/admin/innovators",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	innovators = nil
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &innovators))
	if assert.Len(t, innovators, 1) {
		assert.Equal(t, testCtx.TestUserID, innovators[0].ID)
		assert.Equal(t, models.RoleInnovator, innovators[0].Role)
	}

	// Test case 3: Non-admin is denied
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/admin/innovators",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFirstUserBecomesAdmin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Seeded admin can read the user directory, seeded user cannot.
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/admin/users",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/admin/users",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
