// Package manifests resolves session manifests from the blob store.
package manifests

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestResolver = (*Resolver)(nil)

// Resolver loads manifests and caches the ones it found.
// Absent manifests are never cached, so a manifest written later is picked up by the next call.
// Cached manifests are shared and must not be modified.
type Resolver struct {
	store ports.BlobStore
	cache *expirable.LRU[string, *domain.Manifest]

	// forgets counts Forget calls. A fetch that overlapped one does not cache what it read.
	mu      sync.Mutex
	forgets uint64
}

// NewResolver creates a resolver keeping at most size manifests for ttl each.
// A non-positive ttl keeps entries until they are evicted by size.
func NewResolver(store ports.BlobStore, size int, ttl time.Duration) *Resolver {
	return &Resolver{
		store: store,
		cache: expirable.NewLRU[string, *domain.Manifest](size, nil, ttl),
	}
}

func cacheKey(bucket, sessionID string) string {
	return bucket + "/" + domain.ManifestKey(sessionID)
}

// Resolve returns the manifest of sessionID in bucket, or nil when sessionID is empty or
// no manifest is stored. Other storage failures are returned.
//
//nolint:nilnil // an absent manifest is a valid outcome
func (r *Resolver) Resolve(ctx context.Context, bucket, sessionID string) (*domain.Manifest, error) {
	if sessionID == "" {
		return nil, nil
	}

	key := cacheKey(bucket, sessionID)
	if m, ok := r.cache.Get(key); ok {
		return m, nil
	}

	r.mu.Lock()
	forgets := r.forgets
	r.mu.Unlock()

	data, err := r.store.Get(ctx, bucket, domain.ManifestKey(sessionID))
	if errors.Is(err, domain.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, withSession(zerr.Wrap(err, "failed to fetch manifest"), bucket, sessionID)
	}

	m, err := domain.DecodeManifest(data)
	if err != nil {
		return nil, withSession(err, bucket, sessionID)
	}

	r.mu.Lock()
	if r.forgets == forgets {
		r.cache.Add(key, m)
	}
	r.mu.Unlock()
	return m, nil
}

// Forget drops the cached manifest of sessionID in bucket. Fetches already in flight
// still return what they read but no longer cache it.
func (r *Resolver) Forget(bucket, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgets++
	r.cache.Remove(cacheKey(bucket, sessionID))
}

func withSession(err error, bucket, sessionID string) error {
	return zerr.With(zerr.With(err, domain.MetaBucket, bucket), domain.MetaSessionID, sessionID)
}
