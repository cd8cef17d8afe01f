package blobstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tabworker/internal/adapters/blobstore"
	"go.trai.ch/tabworker/internal/core/domain"
)

func TestMemoryStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := blobstore.NewMemoryStore(0)

	_, err := s.Get(ctx, "b", "k")
	require.ErrorIs(t, err, domain.ErrObjectNotFound)

	body := []byte("hello")
	require.NoError(t, s.Put(ctx, "b", "k", body))
	body[0] = 'X'

	got, err := s.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got, "the store keeps its own copy")

	got[0] = 'Y'
	again, err := s.Get(ctx, "b", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), again)

	_, err = s.Get(ctx, "other", "k")
	require.ErrorIs(t, err, domain.ErrObjectNotFound, "buckets are isolated")
}

func TestMemoryStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	s := blobstore.NewMemoryStore(2)
	for i := range 5 {
		require.NoError(t, s.Put(ctx, "b", fmt.Sprintf("k%d", i), nil))
	}

	var (
		all   []string
		pages int
		token string
	)
	for {
		page, err := s.List(ctx, "b", token)
		require.NoError(t, err)
		pages++
		all = append(all, page.Keys...)
		if !page.IsTruncated {
			break
		}
		token = page.NextContinuationToken
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"k0", "k1", "k2", "k3", "k4"}, all)
}

func TestMemoryStore_ListEmptyBucket(t *testing.T) {
	page, err := blobstore.NewMemoryStore(10).List(context.Background(), "nothing", "")
	require.NoError(t, err)
	assert.Empty(t, page.Keys)
	assert.False(t, page.IsTruncated)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := blobstore.NewMemoryStore(1)
	require.Error(t, s.Put(ctx, "b", "k", nil))
	_, err := s.List(ctx, "b", "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_SelectsBackend(t *testing.T) {
	store, err := blobstore.New(configWithBackend("memory"))
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, store)

	store, err = blobstore.New(configWithBackend("s3"))
	require.NoError(t, err)
	assert.IsType(t, &blobstore.S3Store{}, store)

	_, err = blobstore.New(configWithBackend("gcs"))
	require.ErrorIs(t, err, domain.ErrUnknownBackend)
}
