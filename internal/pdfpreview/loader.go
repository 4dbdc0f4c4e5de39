// Package pdfpreview renders the first page of a PDF into a JPEG surface
// sized to the preview container.
package pdfpreview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/filetype"
	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/metrics"
)

// ErrSuperseded is returned by a load whose task was destroyed by a newer
// Load or by Cancel. Its outcome must not be reported.
var ErrSuperseded = errors.New("pdf load superseded")

// Fetcher retrieves the bytes behind a source.
type Fetcher interface {
	Fetch(ctx context.Context, src media.Source) ([]byte, error)
}

// RenderLimiter bounds concurrent renders across loaders.
type RenderLimiter interface {
	Acquire(ctx context.Context) (func(), error)
}

// Options tunes rendering.
type Options struct {
	Quality   int
	Preflight Preflight
	// Limiter is optional; nil means unbounded.
	Limiter RenderLimiter
}

// Result describes the rendered first page.
type Result struct {
	PageCount   int
	PageIndex   int
	Scale       float64
	Width       int
	Height      int
	ContentType string
	Data        []byte
}

// Caption is the page indicator shown under the preview.
func (r *Result) Caption() string {
	return fmt.Sprintf("Page %d of %d", r.PageIndex, r.PageCount)
}

type task struct {
	id        uint64
	cancel    context.CancelFunc
	destroyed bool
}

// Loader renders previews for a single slot. It keeps at most one pending
// task; starting a new load destroys the previous one.
type Loader struct {
	fetcher  Fetcher
	lib      Library
	detector *filetype.Detector
	opts     Options

	mu      sync.Mutex
	current *task
	nextID  uint64
}

// New creates a loader. A nil lib selects FitzLibrary.
func New(fetcher Fetcher, lib Library, opts Options) *Loader {
	if lib == nil {
		lib = FitzLibrary{}
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}
	if opts.Preflight == "" {
		opts.Preflight = PreflightWarn
	}
	return &Loader{fetcher: fetcher, lib: lib, detector: filetype.New(), opts: opts}
}

// Load renders page 1 of src scaled to containerWidth pixels.
func (l *Loader) Load(ctx context.Context, src media.Source, containerWidth int) (*Result, error) {
	t, tctx := l.begin(ctx)
	if t == nil {
		return nil, ErrSuperseded
	}
	defer l.finish(t)

	start := time.Now()
	res, err := l.run(tctx, src, containerWidth)

	l.mu.Lock()
	destroyed := t.destroyed
	l.mu.Unlock()
	if destroyed {
		log.Debug().Uint64("task", t.id).Str("name", src.Name).Msg("pdf task destroyed before completion")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	log.Debug().
		Uint64("task", t.id).
		Str("name", src.Name).
		Int("pages", res.PageCount).
		Float64("scale", res.Scale).
		Dur("took", time.Since(start)).
		Msg("pdf preview rendered")
	return res, nil
}

// Cancel destroys the pending task, if any.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyLocked()
}

// begin installs a new current task. A request whose context is already
// cancelled was superseded before it started and must not destroy the
// task that replaced it.
func (l *Loader) begin(ctx context.Context) (*task, context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ctx.Err() != nil {
		return nil, nil
	}
	l.destroyLocked()
	tctx, cancel := context.WithCancel(ctx)
	l.nextID++
	t := &task{id: l.nextID, cancel: cancel}
	l.current = t
	return t, tctx
}

func (l *Loader) finish(t *task) {
	l.mu.Lock()
	if l.current == t {
		l.current = nil
	}
	l.mu.Unlock()
	t.cancel()
}

func (l *Loader) destroyLocked() {
	if l.current == nil {
		return
	}
	l.current.destroyed = true
	l.current.cancel()
	metrics.IncPDFTaskDestroyed()
	l.current = nil
}

// run is the sequential pipeline: bytes, open, page 1, scale, render.
// Each step aborts on the first failure or on cancellation.
func (l *Loader) run(ctx context.Context, src media.Source, containerWidth int) (*Result, error) {
	data, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		if src.Kind == media.SourceFile {
			return nil, err
		}
		return nil, &media.OpenError{Name: src.Name, Err: err}
	}

	if _, err := l.detector.Expect(data, media.KindPDF); err != nil {
		return nil, &media.OpenError{Name: src.Name, Err: err}
	}

	preflightPages := -1
	if l.opts.Preflight != PreflightOff {
		n, err := pageCount(data)
		switch {
		case err != nil && l.opts.Preflight == PreflightStrict:
			return nil, &media.OpenError{Name: src.Name, Err: err}
		case err != nil:
			log.Warn().Err(err).Str("name", src.Name).Msg("pdf preflight failed, continuing with renderer")
		default:
			preflightPages = n
		}
	}

	if l.opts.Limiter != nil {
		release, err := l.opts.Limiter.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := l.lib.Open(ctx, data)
	if err != nil {
		return nil, &media.OpenError{Name: src.Name, Err: err}
	}
	defer doc.Close()

	pages := doc.NumPage()
	if preflightPages >= 0 && preflightPages != pages {
		log.Warn().Str("name", src.Name).Int("preflight", preflightPages).Int("renderer", pages).Msg("pdf page count disagreement")
	}

	page, err := doc.Page(ctx, 0)
	if err != nil {
		return nil, &media.RenderError{Page: 1, Err: err}
	}

	if containerWidth <= 0 {
		return nil, &media.RenderError{Page: 1, Err: fmt.Errorf("invalid container width %d", containerWidth)}
	}
	native := page.Viewport(1)
	if native.Width <= 0 {
		return nil, &media.RenderError{Page: 1, Err: errors.New("page has zero width")}
	}
	scale := float64(containerWidth) / native.Width
	vp := page.Viewport(scale)

	img, err := page.Render(ctx, vp)
	if err != nil {
		return nil, &media.RenderError{Page: 1, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: l.opts.Quality}); err != nil {
		return nil, &media.RenderError{Page: 1, Err: fmt.Errorf("failed to encode JPEG: %w", err)}
	}

	bounds := img.Bounds()
	return &Result{
		PageCount:   pages,
		PageIndex:   1,
		Scale:       scale,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}
