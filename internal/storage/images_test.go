package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A 2x1 GIF.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize))
	return req.MultipartForm.File["image"][0]
}

func TestLocalSaveImage(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root)

	rel, err := store.Save(context.Background(), fileHeader(t, "small.gif", smallGIF))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "posts/"))
	assert.True(t, strings.HasSuffix(rel, ".gif"))

	saved, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, saved)
}

func TestLocalRejectsNonImage(t *testing.T) {
	store := NewLocal(t.TempDir())

	_, err := store.Save(context.Background(), fileHeader(t, "notes.gif", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "broken.gif")
	src := io.MultiReader(bytes.NewReader(smallGIF[:10]), iotest.ErrReader(errors.New("connection reset")))

	err := writeFile(dst, src)
	require.Error(t, err)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "partial upload must not stay on disk")
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocal(root)

	rel, err := store.Save(ctx, fileHeader(t, "small.gif", smallGIF))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, rel), "deleting twice is fine")
	assert.NoError(t, store.Delete(ctx, ""))
	assert.Error(t, store.Delete(ctx, "../outside.gif"))
	assert.Error(t, store.Delete(ctx, "posts/../../outside.gif"))
}
