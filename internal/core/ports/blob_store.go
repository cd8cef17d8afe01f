// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/tabworker/internal/core/domain"
)

// BlobStore defines the interface for the object storage holding manifests and assets.
//
//go:generate go run go.uber.org/mock/mockgen -source=blob_store.go -destination=mocks/mock_blob_store.go -package=mocks
type BlobStore interface {
	// Get returns the content of the object stored under key in bucket.
	// It returns domain.ErrObjectNotFound if the object does not exist.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put stores body under key in bucket, replacing any existing object.
	Put(ctx context.Context, bucket, key string, body []byte) error

	// List returns one page of the keys stored in bucket.
	// An empty token requests the first page; the returned page carries the token of the next one.
	List(ctx context.Context, bucket, continuationToken string) (domain.ListPage, error)
}
