package assets_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tabworker/internal/adapters/blobstore"
	"go.trai.ch/tabworker/internal/adapters/fs"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/core/ports/mocks"
	"go.trai.ch/tabworker/internal/engine/assets"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	return log
}

func assetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html>root</html>")
	writeFile(t, dir, "js/App.JS", "console.log(1)")
	writeFile(t, dir, "css/site.css", "body{}")
	writeFile(t, dir, "node_modules/dep/index.js", "ignored")
	writeFile(t, dir, ".git/HEAD", "ref")
	return dir
}

func TestBuild_MapsFilesToContentKeys(t *testing.T) {
	dir := assetDir(t)
	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), blobstore.NewMemoryStore(0), quietLogger(t))

	m, err := b.Build(dir, "bucketX", "s1", "")
	require.NoError(t, err)

	assert.Equal(t, "bucketX", m.Bucket)
	assert.Equal(t, "s1", m.SessionID)
	assert.Equal(t, "<html>root</html>", m.Index)
	assert.Equal(t, map[string]string{
		"js/App.JS":    fs.ContentKey(xxhash.Sum64String("console.log(1)"), "js/App.JS"),
		"css/site.css": fs.ContentKey(xxhash.Sum64String("body{}"), "css/site.css"),
	}, m.Files)
	assert.Regexp(t, `^[0-9a-f]{16}\.js$`, m.Files["js/App.JS"])
}

func TestBuild_IdenticalContentSharesKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "")
	writeFile(t, dir, "a/x.js", "same")
	writeFile(t, dir, "b/y.js", "same")

	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), blobstore.NewMemoryStore(0), quietLogger(t))
	m, err := b.Build(dir, "b", "s", "index.html")
	require.NoError(t, err)
	assert.Equal(t, m.Files["a/x.js"], m.Files["b/y.js"])
}

func TestBuild_MissingIndexFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.js", "x")

	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), blobstore.NewMemoryStore(0), quietLogger(t))
	_, err := b.Build(dir, "b", "s", "main.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAssetReadFailed.Error())
}

func TestBuild_RejectsMissingDirectory(t *testing.T) {
	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), blobstore.NewMemoryStore(0), quietLogger(t))

	_, err := b.Build(filepath.Join(t.TempDir(), "missing"), "b", "s", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAssetDirInvalid.Error())
}

func TestBuild_HashFailure(t *testing.T) {
	dir := assetDir(t)
	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	hashErr := errors.New("disk error")
	hasher.EXPECT().ComputeFileHash(gomock.Any()).Return(uint64(0), hashErr)

	b := assets.NewBuilder(fs.NewWalker(), hasher, blobstore.NewMemoryStore(0), quietLogger(t))
	_, err := b.Build(dir, "b", "s", "")
	require.ErrorIs(t, err, hashErr)
}

func TestUpload_PutsNeededObjects(t *testing.T) {
	dir := assetDir(t)
	store := blobstore.NewMemoryStore(0)
	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), store, quietLogger(t))

	m, err := b.Build(dir, "b", "s", "")
	require.NoError(t, err)

	needed := []domain.CacheDiffEntry{{Path: "css/site.css", Key: m.Files["css/site.css"], Needed: true}}
	require.NoError(t, b.Upload(context.Background(), m, needed, dir))

	body, err := store.Get(context.Background(), "b", m.Files["css/site.css"])
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(body))

	_, err = store.Get(context.Background(), "b", m.Files["js/App.JS"])
	require.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestUpload_PropagatesPutFailure(t *testing.T) {
	dir := assetDir(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockBlobStore(ctrl)
	putErr := errors.New("forbidden")
	store.EXPECT().Put(gomock.Any(), "b", "k1", []byte("body{}")).Return(putErr)

	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), store, quietLogger(t))
	m := &domain.Manifest{SessionID: "s", Bucket: "b"}

	err := b.Upload(context.Background(), m, []domain.CacheDiffEntry{{Path: "css/site.css", Key: "k1", Needed: true}}, dir)
	require.ErrorIs(t, err, putErr)
	assert.Contains(t, err.Error(), domain.ErrUploadFailed.Error())
}

func TestUpload_MissingLocalFile(t *testing.T) {
	b := assets.NewBuilder(fs.NewWalker(), fs.NewHasher(), blobstore.NewMemoryStore(0), quietLogger(t))
	m := &domain.Manifest{SessionID: "s", Bucket: "b"}

	err := b.Upload(context.Background(), m, []domain.CacheDiffEntry{{Path: "gone.js", Key: "k"}}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAssetReadFailed.Error())
}
