// Package fs provides file system adapters for walking and hashing local assets.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileWalker = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// DefaultIgnores are directory names never published as assets.
var DefaultIgnores = []string{".git", ".jj", "node_modules"}

// WalkFiles yields every regular file below root in lexical order, skipping entries whose
// name matches one of ignores. A walk error is yielded once and ends the iteration.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield("", zerr.With(zerr.Wrap(err, "failed to walk directory"), domain.MetaPath, path))
				return filepath.SkipAll
			}

			if path != root && matchesAny(d.Name(), ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
