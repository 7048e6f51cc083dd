package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_PersistsRawBytes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cities")
	store := NewStore(dir)

	payload := []byte("DATE;TN;TX\n20250101;1,5;8,2\n")
	path, err := store.Write("Beaulieu-sur-Dordogne", payload)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Beaulieu-sur-Dordogne.csv"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestWrite_OverwritesExisting(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Write("Tulle", []byte("old"))
	require.NoError(t, err)
	path, err := store.Write("Tulle", []byte("new"))
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(written))
}
