package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("alunos/1/foto.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	file, err := store.Open("alunos/1/foto.png")
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, store.Delete("alunos/1/foto.png"))
	require.NoError(t, store.Delete("alunos/1/foto.png"))
	_, err = store.Open("alunos/1/foto.png")
	assert.Error(t, err)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../../etc/passwd", []byte("x"))
	assert.Error(t, err)
}
