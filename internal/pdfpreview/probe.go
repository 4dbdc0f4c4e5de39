package pdfpreview

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed probe.pdf
var probePDF []byte

// Probe opens and renders a one-page document with lib. It backs the
// renderer readiness check.
func Probe(ctx context.Context, lib Library) error {
	doc, err := lib.Open(ctx, probePDF)
	if err != nil {
		return fmt.Errorf("open probe document: %w", err)
	}
	defer doc.Close()
	if n := doc.NumPage(); n != 1 {
		return fmt.Errorf("probe document reports %d pages", n)
	}
	page, err := doc.Page(ctx, 0)
	if err != nil {
		return err
	}
	img, err := page.Render(ctx, page.Viewport(0.25))
	if err != nil {
		return err
	}
	if img.Bounds().Dx() == 0 {
		return fmt.Errorf("probe render is empty")
	}
	return nil
}
