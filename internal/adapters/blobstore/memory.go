package blobstore

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BlobStore = (*MemoryStore)(nil)

// DefaultPageSize matches the largest page S3 returns.
const DefaultPageSize = 1000

// MemoryStore is a process-local BlobStore. Listings are paginated like S3 so that callers
// exercise continuation tokens.
type MemoryStore struct {
	mu       sync.RWMutex
	buckets  map[string]map[string][]byte
	pageSize int
}

// NewMemoryStore creates an empty store returning at most pageSize keys per page.
func NewMemoryStore(pageSize int) *MemoryStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MemoryStore{
		buckets:  make(map[string]map[string][]byte),
		pageSize: pageSize,
	}
}

// Get returns a copy of the object stored under key.
func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStorageGetFailed.Error())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.buckets[bucket][key]
	if !ok {
		err := zerr.Wrap(domain.ErrObjectNotFound, "no such key")
		return nil, zerr.With(zerr.With(err, domain.MetaBucket, bucket), domain.MetaKey, key)
	}
	return slices.Clone(raw), nil
}

// Put stores a copy of body under key.
func (s *MemoryStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrStoragePutFailed.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string][]byte)
		s.buckets[bucket] = objects
	}
	if body == nil {
		body = []byte{}
	}
	objects[key] = slices.Clone(body)
	return nil
}

// List returns the keys following continuationToken in lexical order.
// The token is the last key of the previous page.
func (s *MemoryStore) List(ctx context.Context, bucket, continuationToken string) (domain.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ListPage{}, zerr.Wrap(err, domain.ErrStorageListFailed.Error())
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.buckets[bucket]))
	for k := range s.buckets[bucket] {
		if continuationToken == "" || k > continuationToken {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	slices.Sort(keys)

	if len(keys) <= s.pageSize {
		return domain.ListPage{Keys: keys}, nil
	}
	keys = keys[:s.pageSize]
	return domain.ListPage{
		Keys:                  keys,
		NextContinuationToken: keys[len(keys)-1],
		IsTruncated:           true,
	}, nil
}
