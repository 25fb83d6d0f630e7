package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveURLDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	rel, err := store.Save("past-questions/1700000000000-paper.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "past-questions/1700000000000-paper.pdf", rel)
	assert.Equal(t, "http://localhost:8080/uploads/past-questions/1700000000000-paper.pdf", store.URL(rel))

	data, err := os.ReadFile(filepath.Join(dir, "past-questions", "1700000000000-paper.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete(rel))
	_, err = os.Stat(filepath.Join(dir, "past-questions", "1700000000000-paper.pdf"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Delete(rel), "deleting a missing file is not an error")
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	_, err = store.Save("../outside.txt", []byte("x"))
	require.Error(t, err)
	require.Error(t, store.Delete("../../etc/passwd"))
}
