package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/api/testutils"
	"github.com/fundverse/fundverse-server/internal/models"
)

func TestRegisterPaymentMethodMasking(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Valid card, masked to its last 4 digits
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payment-methods",
		models.RegisterPaymentMethodRequest{
			MethodType:        "card",
			Provider:          "visa",
			AccountIdentifier: "4532 0151 1283 0366",
			Currency:          "AUD",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/payment-methods",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var methods []models.PaymentMethod
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &methods))
	require.Len(t, methods, 1)
	assert.Equal(t, "************0366", methods[0].MaskedAccount)

	// Test case 2: Luhn failure is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payment-methods",
		models.RegisterPaymentMethodRequest{
			MethodType:        "card",
			Provider:          "visa",
			AccountIdentifier: "4532015112830367",
			Currency:          "AUD",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 3: Wallet keeps only the last 3 digits
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payment-methods",
		models.RegisterPaymentMethodRequest{
			MethodType:        "wallet",
			Provider:          "examplepay",
			AccountIdentifier: "0912345678",
			Currency:          "AUD",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/payment-methods",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &methods))
	require.Len(t, methods, 2)
	assert.Equal(t, "******678", methods[1].MaskedAccount)
}

func TestDeactivatedMethodDisappears(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payment-methods",
		models.RegisterPaymentMethodRequest{
			MethodType:        "bank",
			Provider:          "examplebank",
			AccountIdentifier: "AU123456789012",
			Currency:          "AUD",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Another user cannot touch it.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/payment-methods/%d", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The owner deactivates it and it drops from the active listing.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/payment-methods/%d", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/payment-methods",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var methods []models.PaymentMethod
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &methods))
	assert.Empty(t, methods)
}

func TestPaymentVerificationLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payment-methods",
		models.RegisterPaymentMethodRequest{
			MethodType:        "wallet",
			Provider:          "examplepay",
			AccountIdentifier: "0912345678",
			Currency:          "AUD",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var method models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &method))

	// Test case 1: Initiate opens a pending verification
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/payments",
		models.InitiatePaymentRequest{
			SpvID:           1,
			DealID:          7,
			Amount:          5000,
			PaymentMethodID: method.ID,
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var payment models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))

	// Test case 2: Verify converts the amount to fractions
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/verify", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var verified models.PaymentVerification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.Equal(t, models.PaymentVerified, verified.Status)
	assert.Equal(t, int64(5), verified.Fractions)

	// Test case 3: Double verification conflicts
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/verify", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 4: Settlement is an operator action, the investor cannot
	// fail or refund their own payment
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/fail", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/refund", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 5: Failing a verified payment conflicts, refunding works
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/fail", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/payments/%d/refund", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/payments/%d", payment.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.Equal(t, models.PaymentRefunded, verified.Status)
}
