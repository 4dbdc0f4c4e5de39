// Package imagepreview loads raster images for a slot preview.
package imagepreview

import (
	"bytes"
	"context"
	"errors"
	"image"
	// Register decoders for the formats the resolver accepts
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/filetype"
	"github.com/local/doccompare/internal/media"
)

var errZeroSize = errors.New("image has zero dimensions")

// Fetcher retrieves the bytes behind a source.
type Fetcher interface {
	Fetch(ctx context.Context, src media.Source) ([]byte, error)
}

// Result is a displayable image with its natural dimensions.
type Result struct {
	Width       int
	Height      int
	Format      string
	ContentType string
	Data        []byte
}

// Loader is stateless; one instance serves both slots.
type Loader struct {
	fetcher  Fetcher
	detector *filetype.Detector
}

// New creates a loader backed by fetcher.
func New(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher, detector: filetype.New()}
}

// Load reads src and decodes its header. Local read failures are
// *media.ReadError; everything else, including URL fetch failures, is
// *media.DecodeError.
func (l *Loader) Load(ctx context.Context, src media.Source) (*Result, error) {
	data, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		if src.Kind == media.SourceFile {
			return nil, err
		}
		return nil, &media.DecodeError{Name: src.Name, Err: err}
	}

	info, err := l.detector.Expect(data, media.KindImage)
	if err != nil {
		return nil, &media.DecodeError{Name: src.Name, Err: err}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &media.DecodeError{Name: src.Name, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &media.DecodeError{Name: src.Name, Err: errZeroSize}
	}

	log.Debug().
		Str("name", src.Name).
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("image preview decoded")

	return &Result{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      format,
		ContentType: info.MIMEType,
		Data:        data,
	}, nil
}
