package filetype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/media"
)

// Info contains detected file type information
type Info struct {
	MIMEType    string
	Extension   string
	Kind        media.Kind
	Description string
}

// Detector handles file type detection using magic bytes
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

// DetectBytes detects the actual content type using magic bytes, not the filename
func (d *Detector) DetectBytes(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to detect file type: empty content")
	}
	mtype := mimetype.Detect(data)

	info := &Info{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}
	// mimetype may append parameters (e.g. "; charset=utf-8") for text types
	if i := strings.Index(info.MIMEType, ";"); i >= 0 {
		info.MIMEType = strings.TrimSpace(info.MIMEType[:i])
	}

	d.classify(info)

	log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Str("kind", string(info.Kind)).Msg("detected file type")
	return info, nil
}

// classify maps the MIME type to the media kinds the previewer can render
func (d *Detector) classify(info *Info) {
	switch info.MIMEType {
	case "application/pdf":
		info.Kind = media.KindPDF
		info.Description = "PDF document"
	case "image/png":
		info.Kind = media.KindImage
		info.Description = "PNG image"
	case "image/jpeg":
		info.Kind = media.KindImage
		info.Description = "JPEG image"
	case "image/gif":
		info.Kind = media.KindImage
		info.Description = "GIF image"
	default:
		info.Kind = media.KindUnknown
		info.Description = fmt.Sprintf("Unsupported content: %s", info.MIMEType)
	}
}

// Expect returns an error when data is not of the wanted kind
func (d *Detector) Expect(data []byte, want media.Kind) (*Info, error) {
	info, err := d.DetectBytes(data)
	if err != nil {
		return nil, err
	}
	if info.Kind != want {
		return info, fmt.Errorf("content is %s, expected %s", info.MIMEType, want)
	}
	return info, nil
}
