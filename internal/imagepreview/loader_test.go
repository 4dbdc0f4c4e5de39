package imagepreview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/doccompare/internal/fetch"
	"github.com/local/doccompare/internal/media"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoad_UploadedPNG(t *testing.T) {
	loader := New(fetch.New(fetch.Options{}))

	res, err := loader.Load(context.Background(), media.FileFromBytes("photo.png", pngBytes(t, 800, 600)))
	require.NoError(t, err)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 600, res.Height)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, "image/png", res.ContentType)
	assert.NotEmpty(t, res.Data)
}

func TestLoad_URL(t *testing.T) {
	body := pngBytes(t, 32, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	res, err := New(fetch.New(fetch.Options{})).Load(context.Background(), media.URLSource(server.URL+"/x.png"))
	require.NoError(t, err)
	assert.Equal(t, 32, res.Width)
	assert.Equal(t, 16, res.Height)
}

func TestLoad_URLFailureIsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := New(fetch.New(fetch.Options{})).Load(context.Background(), media.URLSource(server.URL+"/gone.jpg"))
	var decodeErr *media.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "Error loading image: http 404", media.Message(err))
}

func TestLoad_MissingFileIsReadError(t *testing.T) {
	_, err := New(fetch.New(fetch.Options{})).Load(context.Background(), media.FileFromPath(filepath.Join(t.TempDir(), "nope.png")))
	var readErr *media.ReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestLoad_CorruptBytesAreDecodeError(t *testing.T) {
	loader := New(fetch.New(fetch.Options{}))

	_, err := loader.Load(context.Background(), media.FileFromBytes("notes.png", []byte("just some text, not an image")))
	var decodeErr *media.DecodeError
	require.ErrorAs(t, err, &decodeErr)

	// Valid PNG signature, truncated header.
	truncated := pngBytes(t, 4, 4)[:12]
	_, err = loader.Load(context.Background(), media.FileFromBytes("cut.png", truncated))
	assert.ErrorAs(t, err, &decodeErr)
}

func TestLoad_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 10, 20), 0o644))

	res, err := New(fetch.New(fetch.Options{})).Load(context.Background(), media.FileFromPath(path))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 20, res.Height)
}
