package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

func newDocumentFixture(t *testing.T) (*DocumentService, repository.Repository, int64) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	blobs, err := repository.NewBlobStore("")
	require.NoError(t, err)
	t.Cleanup(func() { blobs.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	campaign := &models.Campaign{
		Title:       "Test",
		Description: "Test campaign",
		FundingGoal: 1000,
		Goal:        1000,
		LegalEntity: "Test Ltd",
		ContactInfo: "test@example.com",
		Status:      "pending",
	}
	require.NoError(t, repo.CreateCampaign(context.Background(), campaign))

	return NewDocumentService(repo, blobs, time.Hour, logger), repo, campaign.ID
}

func TestChunkOverwriteBeforeFinalize(t *testing.T) {
	docs, _, campaignID := newDocumentFixture(t)
	ctx := context.Background()

	docID, err := docs.StartChunkedUpload(ctx, campaignID, "deck.pdf", "application/pdf", 2, 0)
	require.NoError(t, err)

	require.NoError(t, docs.UploadChunk(ctx, docID, 0, []byte("first"), false))
	// Re-sending the same index replaces the slot.
	require.NoError(t, docs.UploadChunk(ctx, docID, 0, []byte("FIRST"), false))
	require.NoError(t, docs.UploadChunk(ctx, docID, 1, []byte("second"), true))

	doc, data, err := docs.GetDoc(ctx, docID)
	require.NoError(t, err)
	assert.True(t, doc.Finalized)
	assert.Equal(t, []byte("FIRSTsecond"), data)
	assert.Equal(t, int64(len("FIRSTsecond")), doc.Size)
}

func TestEmptyChunkCountsAsReceived(t *testing.T) {
	docs, _, campaignID := newDocumentFixture(t)
	ctx := context.Background()

	docID, err := docs.StartChunkedUpload(ctx, campaignID, "deck.pdf", "application/pdf", 2, 0)
	require.NoError(t, err)

	// An explicitly empty chunk fills its slot, so finalize must not report
	// the upload as incomplete.
	require.NoError(t, docs.UploadChunk(ctx, docID, 0, []byte("head"), false))
	require.NoError(t, docs.UploadChunk(ctx, docID, 1, nil, true))

	doc, data, err := docs.GetDoc(ctx, docID)
	require.NoError(t, err)
	assert.True(t, doc.Finalized)
	assert.Equal(t, []byte("head"), data)
	assert.Equal(t, int64(len("head")), doc.Size)
}

func TestUploadChunkValidation(t *testing.T) {
	docs, _, campaignID := newDocumentFixture(t)
	ctx := context.Background()

	// Zero chunks is rejected up front.
	_, err := docs.StartChunkedUpload(ctx, campaignID, "deck.pdf", "application/pdf", 0, 0)
	assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))

	// Unknown campaign.
	_, err = docs.StartChunkedUpload(ctx, 99999, "deck.pdf", "application/pdf", 2, 0)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))

	docID, err := docs.StartChunkedUpload(ctx, campaignID, "deck.pdf", "application/pdf", 2, 0)
	require.NoError(t, err)

	// Index past the declared total.
	err = docs.UploadChunk(ctx, docID, 2, []byte("x"), false)
	assert.Equal(t, models.CodeInvalidChunkIndex, models.CodeOf(err))

	// Finalize with a hole.
	err = docs.UploadChunk(ctx, docID, 1, []byte("x"), true)
	assert.Equal(t, models.CodeIncompleteUpload, models.CodeOf(err))

	// The session survives a failed finalize; filling the hole completes it.
	require.NoError(t, docs.UploadChunk(ctx, docID, 0, []byte("y"), true))
}

func TestSingleShotSizeLimit(t *testing.T) {
	docs, repo, campaignID := newDocumentFixture(t)
	ctx := context.Background()

	_, err := docs.UploadDoc(ctx, campaignID, "big.bin", "application/octet-stream", bytes.Repeat([]byte("a"), MaxInlineUploadSize+1), 0)
	assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))

	// Nothing was attached to the campaign.
	campaign, err := repo.GetCampaign(ctx, campaignID)
	require.NoError(t, err)
	assert.Empty(t, campaign.DocIDs)

	// At the limit it goes through.
	docID, err := docs.UploadDoc(ctx, campaignID, "ok.bin", "application/octet-stream", bytes.Repeat([]byte("a"), MaxInlineUploadSize), 0)
	require.NoError(t, err)

	campaign, err = repo.GetCampaign(ctx, campaignID)
	require.NoError(t, err)
	assert.Equal(t, []int64{docID}, campaign.DocIDs)
}

func TestExpiredSessionEvicted(t *testing.T) {
	docs, _, campaignID := newDocumentFixture(t)
	docs.sessionTTL = time.Millisecond
	ctx := context.Background()

	docID, err := docs.StartChunkedUpload(ctx, campaignID, "deck.pdf", "application/pdf", 1, 0)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	err = docs.UploadChunk(ctx, docID, 0, []byte("late"), true)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}
