package storage_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-generator/internal/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSignatureStore_SaveAndLoad(t *testing.T) {
	root := t.TempDir()
	store := storage.NewSignatureStore(root)
	data := pngBytes(t)

	stored, err := store.Save(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "signatures/"))
	assert.True(t, strings.HasSuffix(stored, ".png"))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored)))
	require.NoError(t, err)

	got, err := store.Load(stored)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Remove(stored))
	_, err = store.Load(stored)
	assert.Error(t, err)
	assert.NoError(t, store.Remove(stored))
}

func TestSignatureStore_RejectsBadUploads(t *testing.T) {
	store := storage.NewSignatureStore(t.TempDir())

	_, err := store.Save(bytes.NewReader(nil))
	assert.ErrorIs(t, err, storage.ErrEmptyUpload)

	_, err = store.Save(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, storage.ErrNotAnImage)

	big := append(pngBytes(t), make([]byte, storage.MaxSignatureBytes)...)
	_, err = store.Save(bytes.NewReader(big))
	assert.ErrorIs(t, err, storage.ErrTooLarge)
}

func TestSignatureStore_RefusesEscapingPaths(t *testing.T) {
	store := storage.NewSignatureStore(t.TempDir())

	for _, p := range []string{"", "../etc/passwd", "signatures/../../x", "/signatures/a.png", "other/a.png"} {
		_, err := store.Open(p)
		assert.ErrorIs(t, err, storage.ErrInvalidPath, p)
	}
}
