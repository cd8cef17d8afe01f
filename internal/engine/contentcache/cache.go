// Package contentcache diffs the assets a session manifest needs against the blob store.
package contentcache

import (
	"context"

	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Cache persists manifests and reports which of their storage keys are missing.
type Cache struct {
	store    ports.BlobStore
	resolver ports.ManifestResolver
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates a Cache. The resolver's cached copy of a manifest is dropped whenever Sync
// overwrites it.
func New(store ports.BlobStore, resolver ports.ManifestResolver, tracer ports.Tracer, logger ports.Logger) *Cache {
	return &Cache{
		store:    store,
		resolver: resolver,
		tracer:   tracer,
		logger:   logger,
	}
}

// Sync overwrites the stored manifest of m and, concurrently, lists every key of m.Bucket.
// It returns the entries of m whose key is absent from the listing, ordered by path.
// Both the write and the full listing complete before Sync returns; a failure of either
// aborts the sync without a partial result.
func (c *Cache) Sync(ctx context.Context, m *domain.Manifest) (domain.SyncResult, error) {
	if err := m.Validate(); err != nil {
		return domain.SyncResult{}, err
	}

	ctx, span := c.tracer.Start(ctx, "contentcache.sync")
	defer span.End()
	span.SetAttribute(domain.MetaBucket, m.Bucket)
	span.SetAttribute(domain.MetaSessionID, m.SessionID)

	body, err := m.Encode()
	if err != nil {
		span.RecordError(err)
		return domain.SyncResult{}, err
	}

	var cached map[string]struct{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.store.Put(gctx, m.Bucket, m.Key(), body); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write manifest"), domain.MetaKey, m.Key())
		}
		c.resolver.Forget(m.Bucket, m.SessionID)
		c.logger.Info("manifest written", domain.MetaBucket, m.Bucket, domain.MetaKey, m.Key())
		return nil
	})
	g.Go(func() error {
		keys, err := c.listAll(gctx, m.Bucket)
		if err != nil {
			return err
		}
		cached = keys
		return nil
	})
	if err := g.Wait(); err != nil {
		err = zerr.Wrap(err, domain.ErrSyncFailed.Error())
		err = zerr.With(zerr.With(err, domain.MetaBucket, m.Bucket), domain.MetaSessionID, m.SessionID)
		span.RecordError(err)
		return domain.SyncResult{}, err
	}

	result := Diff(m, cached)
	span.SetAttribute("needed", len(result.Needed))
	c.logger.Info("sync complete",
		domain.MetaSessionID, m.SessionID,
		"files", len(m.Files),
		"needed", len(result.Needed),
	)
	return result, nil
}

// listAll walks every page of the bucket listing and returns the set of keys.
func (c *Cache) listAll(ctx context.Context, bucket string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	token := ""
	for pages := 1; ; pages++ {
		page, err := c.store.List(ctx, bucket, token)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to list bucket"), "page", pages)
		}
		for _, k := range page.Keys {
			keys[k] = struct{}{}
		}
		if !page.IsTruncated {
			c.logger.Info("bucket listed", domain.MetaBucket, bucket, "objects", len(keys), "pages", pages)
			return keys, nil
		}
		if page.NextContinuationToken == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrStorageListFailed, "truncated listing without continuation token"), "page", pages)
		}
		token = page.NextContinuationToken
	}
}

// Diff returns the entries of m whose key is not in cached, ordered by path.
// An empty key is reported as needed since no object can be stored under it.
func Diff(m *domain.Manifest, cached map[string]struct{}) domain.SyncResult {
	needed := make([]domain.CacheDiffEntry, 0)
	for _, path := range m.Paths() {
		key := m.Files[path]
		if _, ok := cached[key]; ok && key != "" {
			continue
		}
		needed = append(needed, domain.CacheDiffEntry{Path: path, Key: key, Needed: true})
	}
	return domain.SyncResult{Needed: needed}
}
