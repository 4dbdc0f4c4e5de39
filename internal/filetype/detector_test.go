package filetype

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/doccompare/internal/media"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	return buf.Bytes()
}

func TestDetectBytes_PNG(t *testing.T) {
	info, err := New().DetectBytes(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.MIMEType)
	assert.Equal(t, media.KindImage, info.Kind)
}

func TestDetectBytes_PDFHeader(t *testing.T) {
	info, err := New().DetectBytes([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", info.MIMEType)
	assert.Equal(t, media.KindPDF, info.Kind)
}

func TestDetectBytes_Text(t *testing.T) {
	info, err := New().DetectBytes([]byte("just some text"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", info.MIMEType)
	assert.Equal(t, media.KindUnknown, info.Kind)
}

func TestDetectBytes_Empty(t *testing.T) {
	_, err := New().DetectBytes(nil)
	assert.Error(t, err)
}

func TestExpect(t *testing.T) {
	d := New()
	_, err := d.Expect(pngBytes(t), media.KindImage)
	assert.NoError(t, err)
	info, err := d.Expect(pngBytes(t), media.KindPDF)
	assert.Error(t, err)
	assert.Equal(t, "image/png", info.MIMEType)
}
