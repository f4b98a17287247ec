package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/api/testutils"
	"github.com/fundverse/fundverse-server/internal/models"
)

func TestIdeaLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Submission with a short description is rejected
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/ideas",
		models.SubmitIdeaRequest{Title: "Tiny", Description: "too short"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 2: Valid submission
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/ideas",
		models.SubmitIdeaRequest{Title: "Community battery", Description: "Shared neighbourhood battery storage"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Test case 3: Plain users cannot approve
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/ideas/%d/approve", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 4: Admin approves
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/ideas/%d/approve", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// Test case 5: Rejecting an approved idea fails, state untouched
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/ideas/%d/reject", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, string(models.CodeInvalidStatusTransition), errResp.Code)
}

func TestProjectSubmissionPermissions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	req := models.SubmitProjectRequest{
		Title:        "Desalination pilot",
		Description:  "Small-scale solar desalination pilot plant",
		FundingGoal:  250_000,
		LegalEntity:  "Desal Pilot Ltd",
		ContactInfo:  "team@desal.example",
		Category:     "water",
		DurationDays: 90,
		Milestones: []models.MilestoneInput{
			{Title: "Site survey", Amount: 50_000, DueDate: 2_000_000_000},
		},
	}

	// Plain users cannot submit projects.
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/projects",
		req,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins can.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/projects",
		req,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestProjectReviewTransitions(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/projects",
		models.SubmitProjectRequest{
			Title:        "Tidal turbine",
			Description:  "Tidal stream turbine deployment",
			FundingGoal:  1_000_000,
			LegalEntity:  "Tidal Ltd",
			ContactInfo:  "info@tidal.example",
			DurationDays: 120,
		},
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created.ID

	review := func(status models.ReviewStatus) *httptest.ResponseRecorder {
		return testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			fmt.Sprintf("/api/projects/%d/review", projectID),
			models.ReviewProjectRequest{Status: status},
			testutils.AuthHeaders(testCtx.AdminJWT),
		)
	}

	// Pending moves only to UnderReview.
	assert.Equal(t, http.StatusBadRequest, review(models.StatusApproved).Code)
	assert.Equal(t, http.StatusBadRequest, review(models.StatusRejected).Code)
	assert.Equal(t, http.StatusBadRequest, review(models.StatusRequiresRevision).Code)
	require.Equal(t, http.StatusOK, review(models.StatusUnderReview).Code)

	// UnderReview cannot loop back to Pending territory.
	assert.Equal(t, http.StatusBadRequest, review(models.StatusUnderReview).Code)

	// RequiresRevision returns to UnderReview, then approval is terminal.
	require.Equal(t, http.StatusOK, review(models.StatusRequiresRevision).Code)
	assert.Equal(t, http.StatusBadRequest, review(models.StatusApproved).Code)
	require.Equal(t, http.StatusOK, review(models.StatusUnderReview).Code)
	require.Equal(t, http.StatusOK, review(models.StatusApproved).Code)

	// Approved is terminal.
	assert.Equal(t, http.StatusBadRequest, review(models.StatusUnderReview).Code)
	assert.Equal(t, http.StatusBadRequest, review(models.StatusRejected).Code)

	// The review stamp survives on the final read.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/projects/%d", projectID),
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var project models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	assert.Equal(t, models.StatusApproved, project.Status)
	require.NotNil(t, project.Reviewer)
	assert.Equal(t, testCtx.AdminID, *project.Reviewer)
	assert.NotNil(t, project.ReviewedAt)
}
