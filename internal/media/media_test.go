package media

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ImageExtensionsInImageMode(t *testing.T) {
	for _, ext := range []string{"jpg", "jpeg", "png", "gif", "JPG", "Png"} {
		src := FileFromBytes("photo."+ext, nil)
		assert.Equal(t, KindImage, Resolve(src, ModeImage), ext)
		assert.Equal(t, KindUnknown, Resolve(src, ModePDF), ext)
	}
}

func TestResolve_PDFOnlyInPDFMode(t *testing.T) {
	assert.Equal(t, KindPDF, Resolve(FileFromBytes("report.PDF", nil), ModePDF))
	assert.Equal(t, KindUnknown, Resolve(FileFromBytes("report.pdf", nil), ModeImage))
}

func TestResolve_BareNameIsItsOwnExtension(t *testing.T) {
	assert.Equal(t, KindPDF, Resolve(FileFromBytes("PDF", nil), ModePDF))
	assert.Equal(t, KindImage, Resolve(FileFromBytes("png", nil), ModeImage))
	assert.Equal(t, KindUnknown, Resolve(FileFromBytes("pdf", nil), ModeImage))
}

func TestResolve_UnknownPairs(t *testing.T) {
	cases := []string{"notes.txt", "archive.tar.gz", "noextension", "image.webp", "image.png.exe", ""}
	for _, name := range cases {
		for _, mode := range []Mode{ModeImage, ModePDF} {
			assert.Equal(t, KindUnknown, Resolve(FileFromBytes(name, nil), mode), fmt.Sprintf("%s/%s", name, mode))
		}
	}
}

func TestResolve_URLStripsQuery(t *testing.T) {
	assert.Equal(t, KindPDF, Resolve(URLSource("https://x/doc.pdf?download=1"), ModePDF))
	assert.Equal(t, KindImage, Resolve(URLSource("https://cdn.example.com/a/b/cat.JPEG?w=200&h=100"), ModeImage))
	assert.Equal(t, KindImage, Resolve(URLSource("s3://bucket/key/pic.gif"), ModeImage))
	assert.Equal(t, KindUnknown, Resolve(URLSource("https://x/doc.pdf"), ModeImage))
	assert.Equal(t, KindUnknown, Resolve(URLSource("https://x/page?file=doc.pdf"), ModePDF))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "gz", Extension("a.tar.gz"))
	assert.Equal(t, "readme", Extension("README"))
	assert.Equal(t, "", Extension("trailing."))
	assert.Equal(t, "", Extension(""))
	assert.Equal(t, "png", Extension("A.PNG"))
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"a": SideA, "LEFT": SideA, "b": SideB, " right ": SideB} {
		got, err := ParseSide(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSide("middle")
	assert.Error(t, err)
	assert.Equal(t, SideB, SideA.Other())
	assert.Equal(t, "right", SideB.Label())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("PDF")
	require.NoError(t, err)
	assert.Equal(t, ModePDF, m)
	_, err = ParseMode("video")
	assert.Error(t, err)
}

func TestParseRef(t *testing.T) {
	assert.Equal(t, SourceURL, ParseRef("https://x/a.png").Kind)
	assert.Equal(t, SourceURL, ParseRef("s3://b/k.pdf").Kind)
	src := ParseRef("file:///tmp/a.pdf")
	assert.Equal(t, SourceFile, src.Kind)
	assert.Equal(t, "/tmp/a.pdf", src.Path)
	assert.Equal(t, "a.pdf", src.Name)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Unsupported file type. Please upload a PDF file.",
		Message(&UnsupportedTypeError{Name: "a.png", Mode: ModePDF}))
	assert.Equal(t, "Unsupported or unknown file type from URL. Please provide a URL to an image file.",
		Message(&UnsupportedTypeError{Name: "https://x/doc.pdf", Mode: ModeImage, URL: true}))
	assert.Equal(t, "Error loading PDF: boom", Message(fmt.Errorf("wrapped: %w", &OpenError{Name: "a.pdf", Err: errors.New("boom")})))
	assert.Equal(t, "Error loading image: bad", Message(&DecodeError{Name: "a.png", Err: errors.New("bad")}))
	assert.Equal(t, "Failed to read file: gone", Message(&ReadError{Name: "a.png", Err: errors.New("gone")}))
	assert.Equal(t, "Error loading PDF: Unknown error", Message(&RenderError{Page: 1}))
	assert.Equal(t, "", Message(nil))
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("cause")
	for _, err := range []error{
		&ReadError{Err: cause}, &DecodeError{Err: cause}, &OpenError{Err: cause}, &RenderError{Err: cause},
	} {
		assert.ErrorIs(t, err, cause)
	}
}
