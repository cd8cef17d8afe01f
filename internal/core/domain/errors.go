package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

// Metadata keys attached to errors with zerr.With.
const (
	// MetaLogStream carries the invoking worker's log stream identifier.
	MetaLogStream = "log_stream"
	// MetaSessionID carries the session identifier.
	MetaSessionID = "session_id"
	// MetaBucket carries the storage bucket.
	MetaBucket = "bucket"
	// MetaKey carries a storage key.
	MetaKey = "key"
	// MetaTestName carries the name of the test being executed.
	MetaTestName = "test_name"
	// MetaPath carries a logical or filesystem path.
	MetaPath = "path"
)

var (
	// ErrMissingManifest is returned when a session identifier was supplied but no manifest exists for it.
	ErrMissingManifest = zerr.New("missing manifest")

	// ErrInvalidManifest is returned when a manifest lacks a bucket or session identifier.
	ErrInvalidManifest = zerr.New("invalid manifest")

	// ErrManifestEncodeFailed is returned when a manifest cannot be serialized.
	ErrManifestEncodeFailed = zerr.New("failed to encode manifest")

	// ErrManifestDecodeFailed is returned when a stored manifest cannot be parsed.
	ErrManifestDecodeFailed = zerr.New("failed to decode manifest")

	// ErrObjectNotFound is returned by a BlobStore when the requested object does not exist.
	ErrObjectNotFound = zerr.New("object not found")

	// ErrStorageGetFailed is returned when reading an object from storage fails.
	ErrStorageGetFailed = zerr.New("failed to get object")

	// ErrStoragePutFailed is returned when writing an object to storage fails.
	ErrStoragePutFailed = zerr.New("failed to put object")

	// ErrStorageListFailed is returned when listing a bucket fails.
	ErrStorageListFailed = zerr.New("failed to list objects")

	// ErrBrowserLaunchFailed is returned when the remote browser cannot be started.
	ErrBrowserLaunchFailed = zerr.New("failed to launch browser")

	// ErrBrowserKillFailed is returned when the remote browser cannot be torn down.
	ErrBrowserKillFailed = zerr.New("failed to kill browser")

	// ErrTabOpenFailed is returned when a tab cannot be opened at the target URL.
	ErrTabOpenFailed = zerr.New("failed to open tab")

	// ErrTestExecutionFailed is returned when a single test cannot be executed.
	ErrTestExecutionFailed = zerr.New("test execution failed")

	// ErrTestRunFailed is returned when a test run is aborted.
	ErrTestRunFailed = zerr.New("test run failed")

	// ErrSyncFailed is returned when the content cache cannot compute the needed set.
	ErrSyncFailed = zerr.New("sync failed")

	// ErrUploadFailed is returned when uploading needed assets fails.
	ErrUploadFailed = zerr.New("failed to upload asset")

	// ErrAssetDirInvalid is returned when the asset directory cannot be used.
	ErrAssetDirInvalid = zerr.New("invalid asset directory")

	// ErrAssetHashFailed is returned when hashing a local asset fails.
	ErrAssetHashFailed = zerr.New("failed to hash asset")

	// ErrAssetReadFailed is returned when reading a local asset fails.
	ErrAssetReadFailed = zerr.New("failed to read asset")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a configuration value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrUnknownBackend is returned when the configured storage backend is not supported.
	ErrUnknownBackend = zerr.New("unknown storage backend")
)

// ChainMessage renders the messages of err's cause chain joined by ": ".
func ChainMessage(err error) string {
	var parts []string
	for current := err; current != nil; {
		m, ok := current.(interface{ Message() string })
		if !ok {
			parts = append(parts, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			parts = append(parts, msg)
		}
		current = errors.Unwrap(current)
	}
	return strings.Join(parts, ": ")
}

// LogStreamOf returns the log stream identifier attached to err, if any.
func LogStreamOf(err error) string {
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return ""
	}
	if ls, ok := zErr.Metadata()[MetaLogStream].(string); ok {
		return ls
	}
	return ""
}
