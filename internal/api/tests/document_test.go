package api_test

import (
	"bytes"
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

func TestChunkedUploadOutOfOrder(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	campaignID := testutils.SeedCampaign(t, testCtx.Repository, 1000)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/campaigns/%d/documents/uploads", campaignID),
		models.StartUploadRequest{
			Name:        "pitch-deck.pdf",
			ContentType: "application/pdf",
			TotalChunks: 3,
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var started models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	docID := started.ID

	sendChunk := func(index int, data []byte, isFinal bool) *httptest.ResponseRecorder {
		return testutils.PerformRequest(
			testCtx.Router,
			http.MethodPut,
			fmt.Sprintf("/api/documents/uploads/%d/chunks", docID),
			models.UploadChunkRequest{ChunkIndex: index, Data: data, IsFinal: isFinal},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)
	}

	// Chunks arrive 2, 0, 1; the final flag rides on the last arrival, not
	// the last index.
	require.Equal(t, http.StatusOK, sendChunk(2, []byte("charlie"), false).Code)
	require.Equal(t, http.StatusOK, sendChunk(0, []byte("alpha"), false).Code)
	require.Equal(t, http.StatusOK, sendChunk(1, []byte("bravo"), true).Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/documents/%d", docID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Equal([]byte("alphabravocharlie"), w.Body.Bytes()))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	// The finalized document is attached to the campaign.
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/campaigns/%d", campaignID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var campaign models.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &campaign))
	assert.Contains(t, campaign.DocIDs, docID)
}

func TestChunkedUploadErrors(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	campaignID := testutils.SeedCampaign(t, testCtx.Repository, 1000)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/campaigns/%d/documents/uploads", campaignID),
		models.StartUploadRequest{
			Name:        "prospectus.pdf",
			ContentType: "application/pdf",
			TotalChunks: 2,
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var started models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	docID := started.ID

	// Test case 1: Chunk index beyond the declared total
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/documents/uploads/%d/chunks", docID),
		models.UploadChunkRequest{ChunkIndex: 2, Data: []byte("x")},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, string(models.CodeInvalidChunkIndex), errResp.Code)

	// Test case 2: Finalizing with a missing slot
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/documents/uploads/%d/chunks", docID),
		models.UploadChunkRequest{ChunkIndex: 0, Data: []byte("x"), IsFinal: true},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, string(models.CodeIncompleteUpload), errResp.Code)

	// Test case 3: The incomplete document is not readable
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/documents/%d", docID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 4: Unknown session
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/documents/uploads/99999/chunks",
		models.UploadChunkRequest{ChunkIndex: 0, Data: []byte("x")},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSingleShotUpload(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	campaignID := testutils.SeedCampaign(t, testCtx.Repository, 1000)

	// Test case 1: Small payload goes through in one request
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/campaigns/%d/documents", campaignID),
		models.UploadDocRequest{
			Name:        "summary.txt",
			ContentType: "text/plain",
			Data:        []byte("executive summary"),
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/documents/%d", created.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "executive summary", w.Body.String())

	// Test case 2: Payload over the inline limit is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/campaigns/%d/documents", campaignID),
		models.UploadDocRequest{
			Name:        "huge.bin",
			ContentType: "application/octet-stream",
			Data:        bytes.Repeat([]byte("a"), 1_500_001),
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
