// Package domain holds the core entities of tabworker.
package domain

import (
	"encoding/json"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// IndexPath is the sub-path served from a manifest's inline index document.
	IndexPath = "index.html"

	manifestKeyPrefix = "session-"
	manifestKeySuffix = ".json"
)

// Manifest maps the logical asset paths of one session to content-addressed storage keys.
type Manifest struct {
	SessionID string `json:"sessionId"`
	Bucket    string `json:"bucket"`
	// Index is served by value for the session root so it needs no storage round trip.
	Index string `json:"index"`
	// Files maps a logical path to the storage key holding its content.
	Files map[string]string `json:"files"`
}

// ManifestKey returns the object key the manifest of sessionID is stored under.
func ManifestKey(sessionID string) string {
	return manifestKeyPrefix + sessionID + manifestKeySuffix
}

// Key returns the object key of the manifest.
func (m *Manifest) Key() string {
	return ManifestKey(m.SessionID)
}

// Validate checks that the manifest can be stored.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Bucket) == "" {
		return zerr.With(zerr.Wrap(ErrInvalidManifest, "bucket is required"), MetaSessionID, m.SessionID)
	}
	if strings.TrimSpace(m.SessionID) == "" {
		return zerr.With(zerr.Wrap(ErrInvalidManifest, "session id is required"), MetaBucket, m.Bucket)
	}
	return nil
}

// Lookup returns the storage key mapped to path.
func (m *Manifest) Lookup(path string) (string, bool) {
	key, ok := m.Files[path]
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Paths returns the logical paths of the manifest in lexical order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Files))
	for p := range m.Files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Encode serializes the manifest to its stored JSON form.
func (m *Manifest) Encode() ([]byte, error) {
	files := m.Files
	if files == nil {
		files = map[string]string{}
	}
	stored := *m
	stored.Files = files
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrManifestEncodeFailed.Error()), MetaSessionID, m.SessionID)
	}
	return data, nil
}

// DecodeManifest parses a stored manifest.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, ErrManifestDecodeFailed.Error())
	}
	if m.Files == nil {
		m.Files = map[string]string{}
	}
	return &m, nil
}

// CacheDiffEntry describes whether the storage key of one manifest path is missing from storage.
type CacheDiffEntry struct {
	Path   string `json:"path"`
	Key    string `json:"key"`
	Needed bool   `json:"needed"`
}

// SyncResult is the outcome of a content cache sync.
type SyncResult struct {
	// Needed lists only the entries whose key was absent from storage, ordered by path.
	Needed []CacheDiffEntry `json:"needed"`
}

// ListPage is one page of a bucket listing.
type ListPage struct {
	Keys                  []string
	NextContinuationToken string
	IsTruncated           bool
}
