package media

import (
	"errors"
	"fmt"
)

// ReadError is a failure reading a local file.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError is malformed or unreachable image content.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// OpenError is a PDF that could not be fetched or opened.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open pdf %s: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// RenderError covers page fetch, viewport and render failures.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UnsupportedTypeError is returned synchronously when a source does not match
// the current mode. No loader is invoked.
type UnsupportedTypeError struct {
	Name string
	Mode Mode
	URL  bool
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q for %s mode", Extension(e.Name), e.Mode)
}

// PreconditionError signals an operation invoked out of sequence.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %s", e.Op, e.Reason)
}

// Message renders err as the text shown in a slot's error pane.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var unsupported *UnsupportedTypeError
	if errors.As(err, &unsupported) {
		if unsupported.URL {
			return fmt.Sprintf("Unsupported or unknown file type from URL. Please provide a URL to %s file.", unsupported.Mode.Noun())
		}
		return fmt.Sprintf("Unsupported file type. Please upload %s file.", unsupported.Mode.Noun())
	}
	var readErr *ReadError
	if errors.As(err, &readErr) {
		return "Failed to read file: " + causeText(readErr.Err)
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return "Error loading image: " + causeText(decodeErr.Err)
	}
	var openErr *OpenError
	if errors.As(err, &openErr) {
		return "Error loading PDF: " + causeText(openErr.Err)
	}
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return "Error loading PDF: " + causeText(renderErr.Err)
	}
	return "Error loading document: " + causeText(err)
}

func causeText(err error) string {
	if err == nil {
		return "Unknown error"
	}
	msg := err.Error()
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
