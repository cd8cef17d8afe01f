package ports

import (
	"context"

	"go.trai.ch/tabworker/internal/core/domain"
)

// ManifestResolver looks up session manifests.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_resolver.go -destination=mocks/mock_manifest_resolver.go -package=mocks
type ManifestResolver interface {
	// Resolve returns the manifest of sessionID in bucket.
	// It returns nil, nil when sessionID is empty or no manifest is stored.
	Resolve(ctx context.Context, bucket, sessionID string) (*domain.Manifest, error)

	// Forget drops any cached copy of the manifest of sessionID in bucket.
	Forget(bucket, sessionID string)
}
