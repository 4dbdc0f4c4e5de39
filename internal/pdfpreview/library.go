package pdfpreview

import (
	"context"
	"image"
)

// Viewport is a page's rendered size at a given scale. At scale 1 the
// dimensions are the page size in points.
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
}

// Library opens PDF bytes into a Document.
type Library interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// Document abstracts an opened PDF.
type Document interface {
	NumPage() int
	// Page returns the zero-based page n.
	Page(ctx context.Context, n int) (Page, error)
	Close() error
}

// Page abstracts a single page for rasterising.
type Page interface {
	Viewport(scale float64) Viewport
	Render(ctx context.Context, vp Viewport) (image.Image, error)
}
