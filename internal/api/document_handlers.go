package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundverse/fundverse-server/internal/models"
)

// UploadDoc handles the single-shot document upload
func (h *Handler) UploadDoc(c *gin.Context) {
	campaignID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.UploadDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	docID, err := h.documents.UploadDoc(c.Request.Context(), campaignID, req.Name, req.ContentType, req.Data, req.UploadedAt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: docID})
}

// StartChunkedUpload opens an upload session and returns the document id
func (h *Handler) StartChunkedUpload(c *gin.Context) {
	campaignID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req models.StartUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	docID, err := h.documents.StartChunkedUpload(c.Request.Context(), campaignID, req.Name, req.ContentType, req.TotalChunks, req.UploadedAt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.IDResponse{Status: "success", ID: docID})
}

// UploadChunk stores one chunk of an open upload session
func (h *Handler) UploadChunk(c *gin.Context) {
	docID, ok := h.pathID(c, "docId")
	if !ok {
		return
	}
	var req models.UploadChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, models.ErrInvalidInput("invalid request: %v", err))
		return
	}

	if err := h.documents.UploadChunk(c.Request.Context(), docID, req.ChunkIndex, req.Data, req.IsFinal); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// GetDoc streams a finalized document back with its stored content type
func (h *Handler) GetDoc(c *gin.Context) {
	docID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	doc, data, err := h.documents.GetDoc(c.Request.Context(), docID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !doc.Finalized {
		h.respondError(c, models.ErrIncompleteUpload("document %d is not finalized", docID))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	c.Data(http.StatusOK, doc.ContentType, data)
}
