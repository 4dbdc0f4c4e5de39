package pdfpreview

import (
	"context"
	"fmt"
	"image"
	"sync"

	fitz "github.com/gen2brain/go-fitz"
)

// FitzLibrary implements Library using github.com/gen2brain/go-fitz.
type FitzLibrary struct{}

func (FitzLibrary) Open(ctx context.Context, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		doc.Close()
		return nil, err
	}
	return &fitzDoc{doc: doc}, nil
}

// --- Adapters ---

// fitzDoc serialises access; a MuPDF context is not safe for concurrent use.
type fitzDoc struct {
	mu     sync.Mutex
	doc    *fitz.Document
	closed bool
}

func (d *fitzDoc) NumPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	return d.doc.NumPage()
}

func (d *fitzDoc) Page(ctx context.Context, n int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("document closed")
	}
	if n < 0 || n >= d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", n+1)
	}
	bound, err := d.doc.Bound(n)
	if err != nil {
		return nil, err
	}
	return &fitzPage{doc: d, index: n, bound: bound}, nil
}

func (d *fitzDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

type fitzPage struct {
	doc   *fitzDoc
	index int
	bound image.Rectangle
}

func (p *fitzPage) Viewport(scale float64) Viewport {
	return Viewport{
		Width:  float64(p.bound.Dx()) * scale,
		Height: float64(p.bound.Dy()) * scale,
		Scale:  scale,
	}
}

// Render rasterises at 72*scale DPI, the resolution at which one point maps
// to scale pixels.
func (p *fitzPage) Render(ctx context.Context, vp Viewport) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()
	if p.doc.closed {
		return nil, fmt.Errorf("document closed")
	}
	img, err := p.doc.doc.ImageDPI(p.index, 72*vp.Scale)
	if err != nil {
		return nil, err
	}
	return img, nil
}
