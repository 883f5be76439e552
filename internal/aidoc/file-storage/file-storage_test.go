package filestorage

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name := uuid.Must(uuid.NewV4())
	require.NoError(t, storage.Save([]byte("pdf bytes"), name, "application/pdf", &Metadata{Kind: "pdf"}))

	exist, err := storage.Exist(name)
	require.NoError(t, err)
	assert.True(t, exist)

	data, err := storage.Load(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)

	require.NoError(t, storage.Delete(name))
	exist, err = storage.Exist(name)
	require.NoError(t, err)
	assert.False(t, exist)
}
