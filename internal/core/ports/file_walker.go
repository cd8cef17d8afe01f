package ports

import "iter"

// FileWalker enumerates the files of a local directory tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=file_walker.go -destination=mocks/mock_file_walker.go -package=mocks
type FileWalker interface {
	// WalkFiles yields the paths of all files below root, skipping names matching ignores.
	WalkFiles(root string, ignores []string) iter.Seq2[string, error]
}
