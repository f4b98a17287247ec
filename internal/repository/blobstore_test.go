package repository

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/models"
)

func newTestBlobStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := NewBlobStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBlobStoreLargePayload(t *testing.T) {
	store := newTestBlobStore(t)

	// Larger than a single badger value is allowed to be, so the payload
	// spans several segments.
	payload := make([]byte, 1_500_000)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, store.Put(7, payload))

	got, err := store.Get(7)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(payload, got), "stored payload must round-trip intact")
}

func TestBlobStoreSmallAndEmptyPayloads(t *testing.T) {
	store := newTestBlobStore(t)

	require.NoError(t, store.Put(1, []byte("hello")))
	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, store.Put(2, nil))
	got, err = store.Get(2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBlobStoreMissingDocument(t *testing.T) {
	store := newTestBlobStore(t)

	_, err := store.Get(42)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}
