// Package media defines the document sources, media kinds and the resolver
// that maps a requested source onto the loader that should handle it.
package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Side identifies one of the two comparison slots.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Label returns the left/right name used by the UI.
func (s Side) Label() string {
	if s == SideA {
		return "left"
	}
	return "right"
}

// ParseSide accepts a/b and left/right, case-insensitive.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "a", "left":
		return SideA, nil
	case "b", "right":
		return SideB, nil
	}
	return "", fmt.Errorf("unknown side %q", v)
}

// Mode is the comparison mode selected by the user.
type Mode string

const (
	ModeImage Mode = "image"
	ModePDF   Mode = "pdf"
)

// ParseMode accepts image/pdf, case-insensitive.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "image":
		return ModeImage, nil
	case "pdf":
		return ModePDF, nil
	}
	return "", fmt.Errorf("unknown mode %q", v)
}

// Noun returns "an image" / "a PDF" for user-facing messages.
func (m Mode) Noun() string {
	if m == ModePDF {
		return "a PDF"
	}
	return "an image"
}

// Kind is the media kind a source resolves to.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindImage   Kind = "image"
	KindPDF     Kind = "pdf"
)

// SourceKind tags a Source as a local file or a remote reference.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// Source is a document requested for a slot. Build it with FileFromBytes,
// FileFromPath or URLSource; the Kind tag is fixed at construction.
type Source struct {
	Kind SourceKind
	// Name is the file name for file sources and the raw reference for URLs.
	Name string
	// Path is set for files read lazily from disk.
	Path string
	// Data is set for files already held in memory (uploads).
	Data []byte
	// URL is set for remote sources.
	URL string
}

// FileFromBytes wraps an uploaded file.
func FileFromBytes(name string, data []byte) Source {
	return Source{Kind: SourceFile, Name: name, Data: data}
}

// FileFromPath wraps a local file that is read when the loader runs.
func FileFromPath(path string) Source {
	return Source{Kind: SourceFile, Name: filepath.Base(path), Path: path}
}

// URLSource wraps a remote reference (http, https or s3).
func URLSource(raw string) Source {
	raw = strings.TrimSpace(raw)
	return Source{Kind: SourceURL, Name: raw, URL: raw}
}

// ParseRef turns a CLI-style argument into a Source: URLs with a scheme stay
// remote, file:// and bare paths become local files.
func ParseRef(ref string) Source {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "s3://"):
		return URLSource(ref)
	case strings.HasPrefix(ref, "file://"):
		return FileFromPath(strings.TrimPrefix(ref, "file://"))
	}
	return FileFromPath(ref)
}

// Extension returns the lowercased text after the last dot of name. A name
// without a dot is its own extension, so a file called "pdf" resolves as PDF.
func Extension(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}

// urlExtension strips the query string and fragment before taking the extension.
func urlExtension(raw string) string {
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}
	return Extension(raw)
}

var imageExtensions = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}, "gif": {}}

// Resolve classifies src for the given mode. It never fails: anything that
// does not match the mode resolves to KindUnknown.
func Resolve(src Source, mode Mode) Kind {
	var ext string
	switch src.Kind {
	case SourceURL:
		ext = urlExtension(src.URL)
	default:
		ext = Extension(src.Name)
	}
	switch mode {
	case ModeImage:
		if _, ok := imageExtensions[ext]; ok {
			return KindImage
		}
	case ModePDF:
		if ext == "pdf" {
			return KindPDF
		}
	}
	return KindUnknown
}
