// Package assets turns a local asset directory into a session manifest and publishes the
// objects a sync reports as needed.
package assets

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/tabworker/internal/adapters/fs" //nolint:depguard // Content keys are defined by the hasher adapter
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultIndexFile is the file inlined as the manifest index when none is named.
const DefaultIndexFile = "index.html"

// DefaultUploadConcurrency bounds the number of parallel object writes of an upload.
const DefaultUploadConcurrency = 8

// Builder builds manifests from local directories.
type Builder struct {
	walker ports.FileWalker
	hasher ports.Hasher
	store  ports.BlobStore
	logger ports.Logger

	uploadConcurrency int
}

// NewBuilder creates a Builder.
func NewBuilder(walker ports.FileWalker, hasher ports.Hasher, store ports.BlobStore, logger ports.Logger) *Builder {
	return &Builder{
		walker:            walker,
		hasher:            hasher,
		store:             store,
		logger:            logger,
		uploadConcurrency: DefaultUploadConcurrency,
	}
}

// Build walks dir and returns the manifest of sessionID in bucket. Every file except the
// index is mapped from its slash-separated path relative to dir to a content-addressed key;
// the index file is inlined.
func (b *Builder) Build(dir, bucket, sessionID, indexFile string) (*domain.Manifest, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetDirInvalid.Error()), domain.MetaPath, dir)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.Wrap(domain.ErrAssetDirInvalid, "not a directory"), domain.MetaPath, dir)
	}
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}

	m := &domain.Manifest{
		SessionID: sessionID,
		Bucket:    bucket,
		Files:     make(map[string]string),
	}

	for path, err := range b.walker.WalkFiles(dir, fs.DefaultIgnores) {
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrAssetDirInvalid.Error())
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetDirInvalid.Error()), domain.MetaPath, path)
		}
		rel = filepath.ToSlash(rel)
		if rel == filepath.ToSlash(indexFile) {
			continue
		}

		hash, err := b.hasher.ComputeFileHash(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetHashFailed.Error()), domain.MetaPath, path)
		}
		m.Files[rel] = fs.ContentKey(hash, rel)
	}

	index, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(indexFile))) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), domain.MetaPath, indexFile)
	}
	m.Index = string(index)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	b.logger.Info("manifest built", domain.MetaSessionID, sessionID, "files", len(m.Files))
	return m, nil
}

// Upload writes the content of every needed entry, read from dir, to the manifest bucket.
// The first failure cancels the remaining writes and is returned.
func (b *Builder) Upload(ctx context.Context, m *domain.Manifest, needed []domain.CacheDiffEntry, dir string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.uploadConcurrency)

	for _, entry := range needed {
		g.Go(func() error {
			path := filepath.Join(dir, filepath.FromSlash(entry.Path))
			body, err := os.ReadFile(path) //nolint:gosec // Path comes from the manifest built for dir
			if err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), domain.MetaPath, entry.Path)
			}
			if err := b.store.Put(gctx, m.Bucket, entry.Key, body); err != nil {
				err = zerr.With(zerr.Wrap(err, domain.ErrUploadFailed.Error()), domain.MetaKey, entry.Key)
				return zerr.With(err, domain.MetaPath, entry.Path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return zerr.With(err, domain.MetaBucket, m.Bucket)
	}
	if len(needed) > 0 {
		b.logger.Info("assets uploaded", domain.MetaBucket, m.Bucket, "objects", len(needed))
	}
	return nil
}
