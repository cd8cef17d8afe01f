package manifests_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func metadataOf(t *testing.T, err error) map[string]any {
	t.Helper()
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	return zErr.Metadata()
}
