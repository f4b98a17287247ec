package repository

import (
	"encoding/binary"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fundverse/fundverse-server/internal/models"
)

// blobSegmentSize bounds a single badger value. Badger caps values at its
// value threshold (1 MiB in in-memory mode), so document payloads are split
// across fixed-size segment keys and reassembled on read.
const blobSegmentSize = 512 << 10

// BlobStore holds reconstructed document bytes in BadgerDB, keyed by document
// id. Metadata stays in the relational store; only the payload lives here.
type BlobStore struct {
	db *badger.DB
}

// NewBlobStore opens a BadgerDB at dir. An empty dir opens an in-memory
// store, used by tests and local development.
func NewBlobStore(dir string) (*BlobStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	return &BlobStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BlobStore) Close() error {
	return s.db.Close()
}

// countKey holds the segment count for a document.
func countKey(docID int64) []byte {
	key := make([]byte, 9)
	key[0] = 'c'
	binary.BigEndian.PutUint64(key[1:], uint64(docID))
	return key
}

func segmentKey(docID int64, segment uint32) []byte {
	key := make([]byte, 13)
	key[0] = 'd'
	binary.BigEndian.PutUint64(key[1:9], uint64(docID))
	binary.BigEndian.PutUint32(key[9:], segment)
	return key
}

// Put stores the full byte content for a document, split into segments.
// Documents are immutable once finalized, so an existing key is only ever
// rewritten with identical bytes on an upload retry.
func (s *BlobStore) Put(docID int64, data []byte) error {
	segments := len(data) / blobSegmentSize
	if len(data)%blobSegmentSize != 0 || segments == 0 {
		segments++
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var count [4]byte
		binary.BigEndian.PutUint32(count[:], uint32(segments))
		if err := txn.Set(countKey(docID), count[:]); err != nil {
			return err
		}
		for i := 0; i < segments; i++ {
			start := i * blobSegmentSize
			end := start + blobSegmentSize
			if end > len(data) {
				end = len(data)
			}
			if err := txn.Set(segmentKey(docID, uint32(i)), data[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the byte content for a document, reassembled in segment order.
func (s *BlobStore) Get(docID int64) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(countKey(docID))
		if err != nil {
			return err
		}
		var segments uint32
		if err := item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("malformed segment count for document %d", docID)
			}
			segments = binary.BigEndian.Uint32(val)
			return nil
		}); err != nil {
			return err
		}

		for i := uint32(0); i < segments; i++ {
			item, err := txn.Get(segmentKey(docID, i))
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				data = append(data, val...)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, models.ErrNotFound("document %d has no stored content", docID)
		}
		return nil, err
	}
	return data, nil
}
