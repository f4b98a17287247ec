package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

// MaxInlineUploadSize is the single-shot upload limit; anything larger must
// use the chunked path.
const MaxInlineUploadSize = 1_500_000 // 1.5MB

// uploadSession holds the chunk slots of one in-flight chunked upload.
type uploadSession struct {
	docID     int64
	chunks    [][]byte
	createdAt time.Time
}

func (s *uploadSession) complete() bool {
	for _, chunk := range s.chunks {
		if chunk == nil {
			return false
		}
	}
	return true
}

// DocumentService implements the chunked upload protocol. Sessions are
// transient process-local state; a document becomes visible to its campaign
// only once the full chunk sequence has been reconstructed.
type DocumentService struct {
	repo   repository.Repository
	blobs  *repository.BlobStore
	logger *logrus.Logger

	mu         sync.Mutex
	sessions   map[int64]*uploadSession
	sessionTTL time.Duration
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo repository.Repository, blobs *repository.BlobStore, sessionTTL time.Duration, logger *logrus.Logger) *DocumentService {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &DocumentService{
		repo:       repo,
		blobs:      blobs,
		logger:     logger,
		sessions:   make(map[int64]*uploadSession),
		sessionTTL: sessionTTL,
	}
}

// StartChunkedUpload allocates a document id and an upload session with
// totalChunks empty slots. The placeholder document carries no content until
// finalize.
func (s *DocumentService) StartChunkedUpload(ctx context.Context, campaignID int64, name, contentType string, totalChunks int, uploadedAt int64) (int64, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(contentType) == "" {
		return 0, models.ErrInvalidInput("name and content type are required")
	}
	if totalChunks <= 0 {
		return 0, models.ErrInvalidInput("total chunks must be greater than zero")
	}

	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return 0, fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return 0, models.ErrNotFound("campaign %d not found", campaignID)
	}

	doc := &models.Document{
		CampaignID:  campaignID,
		Name:        name,
		ContentType: contentType,
		UploadedAt:  uploadedAt,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}

	s.mu.Lock()
	s.sweepExpiredLocked()
	s.sessions[doc.ID] = &uploadSession{
		docID:     doc.ID,
		chunks:    make([][]byte, totalChunks),
		createdAt: time.Now(),
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"docId":       doc.ID,
		"campaignId":  campaignID,
		"totalChunks": totalChunks,
	}).Info("chunked upload started")

	return doc.ID, nil
}

// UploadChunk stores one chunk. Re-uploading an already-set index before
// finalize overwrites it, so retries are safe. When isFinal is set and all
// slots are populated, the chunks are concatenated in index order, the bytes
// persisted and the document attached to its campaign.
func (s *DocumentService) UploadChunk(ctx context.Context, docID int64, chunkIndex int, data []byte, isFinal bool) error {
	s.mu.Lock()
	s.sweepExpiredLocked()
	session, ok := s.sessions[docID]
	if !ok {
		s.mu.Unlock()
		return models.ErrNotFound("upload session for document %d not found", docID)
	}
	if chunkIndex < 0 || chunkIndex >= len(session.chunks) {
		total := len(session.chunks)
		s.mu.Unlock()
		return models.ErrInvalidChunkIndex(chunkIndex, total)
	}

	// The copy is never nil, so an explicitly empty chunk still marks its
	// slot as received.
	buf := make([]byte, len(data))
	copy(buf, data)
	session.chunks[chunkIndex] = buf

	if !isFinal {
		s.mu.Unlock()
		return nil
	}

	if !session.complete() {
		s.mu.Unlock()
		return models.ErrIncompleteUpload("not all chunks received for document %d", docID)
	}

	var size int64
	for _, chunk := range session.chunks {
		size += int64(len(chunk))
	}
	full := make([]byte, 0, size)
	for _, chunk := range session.chunks {
		full = append(full, chunk...)
	}
	s.mu.Unlock()

	if err := s.blobs.Put(docID, full); err != nil {
		return fmt.Errorf("error storing document content: %w", err)
	}
	if err := s.repo.FinalizeDocument(ctx, docID, size); err != nil {
		return fmt.Errorf("error finalizing document: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, docID)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"docId": docID,
		"size":  size,
	}).Info("document reconstructed")

	return nil
}

// UploadDoc is the single-shot path for payloads under the inline limit. It
// performs the equivalent of start + one chunk + finalize.
func (s *DocumentService) UploadDoc(ctx context.Context, campaignID int64, name, contentType string, data []byte, uploadedAt int64) (int64, error) {
	if len(data) > MaxInlineUploadSize {
		return 0, models.ErrInvalidInput("payload exceeds %d bytes, use the chunked upload", MaxInlineUploadSize)
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(contentType) == "" {
		return 0, models.ErrInvalidInput("name and content type are required")
	}

	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return 0, fmt.Errorf("error getting campaign: %w", err)
	}
	if campaign == nil {
		return 0, models.ErrNotFound("campaign %d not found", campaignID)
	}

	doc := &models.Document{
		CampaignID:  campaignID,
		Name:        name,
		ContentType: contentType,
		UploadedAt:  uploadedAt,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}
	if err := s.blobs.Put(doc.ID, data); err != nil {
		return 0, fmt.Errorf("error storing document content: %w", err)
	}
	if err := s.repo.FinalizeDocument(ctx, doc.ID, int64(len(data))); err != nil {
		return 0, fmt.Errorf("error finalizing document: %w", err)
	}

	return doc.ID, nil
}

// GetDoc returns document metadata with its reconstructed bytes.
func (s *DocumentService) GetDoc(ctx context.Context, docID int64) (*models.Document, []byte, error) {
	doc, err := s.repo.GetDocument(ctx, docID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting document: %w", err)
	}
	if doc == nil {
		return nil, nil, models.ErrNotFound("document %d not found", docID)
	}
	if !doc.Finalized {
		return doc, nil, nil
	}

	data, err := s.blobs.Get(docID)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// sweepExpiredLocked drops sessions past the TTL. Abandoned uploads leave
// only their placeholder document behind; its id is never attached to the
// campaign.
func (s *DocumentService) sweepExpiredLocked() {
	cutoff := time.Now().Add(-s.sessionTTL)
	for id, session := range s.sessions {
		if session.createdAt.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.WithField("docId", id).Warn("expired upload session evicted")
		}
	}
}
