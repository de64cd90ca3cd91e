package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := store.Save(ctx, "resume-1-abc.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(8), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)

	rc, err := store.Open(ctx, "resume-1-abc.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, store.Delete(ctx, "resume-1-abc.pdf"))
	_, err = os.Stat(store.Path("resume-1-abc.pdf"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	require.NoError(t, store.Delete(ctx, "resume-1-abc.pdf"))

	_, err = store.Open(ctx, "resume-1-abc.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageKeepsKeysInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.Path("../../etc/passwd"), dir))
	_, err = store.Save(context.Background(), "", strings.NewReader("x"), "")
	assert.Error(t, err)
}
