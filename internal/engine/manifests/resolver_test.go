package manifests_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports/mocks"
	"go.trai.ch/tabworker/internal/engine/manifests"
	"go.uber.org/mock/gomock"
)

const storedManifest = `{"sessionId":"s1","bucket":"b","index":"<html></html>","files":{"app.js":"k1"}}`

func TestResolve_EmptySessionSkipsStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)

	r := manifests.NewResolver(store, 8, time.Minute)
	m, err := r.Resolve(context.Background(), "b", "")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolve_CachesHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte(storedManifest), nil).Times(1)

	r := manifests.NewResolver(store, 8, time.Minute)

	first, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "<html></html>", first.Index)

	second, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResolve_MissesAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return(nil, domain.ErrObjectNotFound),
		store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte(storedManifest), nil),
	)

	r := manifests.NewResolver(store, 8, time.Minute)

	m, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	assert.Nil(t, m, "a missing manifest is not an error")

	m, err = r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	require.NotNil(t, m, "the next call retries storage")
}

func TestResolve_StorageFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	cause := errors.New("connection reset")
	store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return(nil, cause)

	r := manifests.NewResolver(store, 8, time.Minute)
	_, err := r.Resolve(context.Background(), "b", "s1")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "s1", metadataOf(t, err)[domain.MetaSessionID])
}

func TestResolve_MalformedManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte("{"), nil)

	r := manifests.NewResolver(store, 8, time.Minute)
	_, err := r.Resolve(context.Background(), "b", "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestDecodeFailed.Error())
}

func TestResolve_BucketsAreDistinct(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "b1", "session-s1.json").Return([]byte(storedManifest), nil)
	store.EXPECT().Get(gomock.Any(), "b2", "session-s1.json").Return(nil, domain.ErrObjectNotFound)

	r := manifests.NewResolver(store, 8, time.Minute)

	m, err := r.Resolve(context.Background(), "b1", "s1")
	require.NoError(t, err)
	assert.NotNil(t, m)

	m, err = r.Resolve(context.Background(), "b2", "s1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolver_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte(storedManifest), nil).Times(2)

	r := manifests.NewResolver(store, 8, time.Minute)

	_, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	r.Forget("b", "s1")
	_, err = r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
}

func TestResolver_ForgetDuringFetchDropsStaleRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	const rewritten = `{"sessionId":"s1","bucket":"b","index":"<html>v2</html>","files":{}}`

	r := manifests.NewResolver(store, 8, time.Minute)
	gomock.InOrder(
		// The manifest is rewritten while the first read is in flight.
		store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").
			DoAndReturn(func(context.Context, string, string) ([]byte, error) {
				r.Forget("b", "s1")
				return []byte(storedManifest), nil
			}),
		store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte(rewritten), nil),
	)

	stale, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", stale.Index)

	fresh, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
	assert.Equal(t, "<html>v2</html>", fresh.Index, "the overlapping read must not be cached")
}

func TestResolver_EntriesExpire(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "b", "session-s1.json").Return([]byte(storedManifest), nil).Times(2)

	r := manifests.NewResolver(store, 8, 10*time.Millisecond)

	_, err := r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = r.Resolve(context.Background(), "b", "s1")
	require.NoError(t, err)
}
