package pdfpreview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Preflight selects how the structural check before rendering is applied.
type Preflight string

const (
	PreflightOff    Preflight = "off"
	PreflightWarn   Preflight = "warn"
	PreflightStrict Preflight = "strict"
)

// ParsePreflight maps a config value to a Preflight, defaulting to warn.
func ParsePreflight(v string) Preflight {
	switch Preflight(strings.ToLower(strings.TrimSpace(v))) {
	case PreflightOff:
		return PreflightOff
	case PreflightStrict:
		return PreflightStrict
	}
	return PreflightWarn
}

// pageCount reads the page tree with pdfcpu, independently of the renderer.
func pageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf preflight panic: %v", r)
		}
	}()
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	n, err = api.PageCount(bytes.NewReader(data), cfg)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}
