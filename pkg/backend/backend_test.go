package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/errors"
)

func TestVerifyWritesMarkerOnFirstOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Verify(dir, "kvs"))

	data, err := os.ReadFile(filepath.Join(dir, markerFile))
	require.NoError(t, err)
	assert.Equal(t, "kvs", string(data))
}

func TestVerifyAcceptsMatchingBackendOnReopen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Verify(dir, "kvs"))
	require.NoError(t, Verify(dir, "kvs"))
}

func TestVerifyRejectsMismatchedBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Verify(dir, "kvs"))

	err := Verify(dir, "bolt")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
