// Package slot holds the per-side preview state machine. A slot moves
// Empty -> Loading -> Ready|Error; a newer request or a reset always wins
// over a result that is still in flight.
package slot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/local/doccompare/internal/imagepreview"
	"github.com/local/doccompare/internal/logger"
	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/metrics"
	"github.com/local/doccompare/internal/pdfpreview"
)

// State of a slot.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// ImageLoader loads raster previews.
type ImageLoader interface {
	Load(ctx context.Context, src media.Source) (*imagepreview.Result, error)
}

// PDFLoader renders first-page previews and owns at most one pending task.
type PDFLoader interface {
	Load(ctx context.Context, src media.Source, containerWidth int) (*pdfpreview.Result, error)
	Cancel()
}

// ImageMeta is reported for a ready image.
type ImageMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// PDFMeta is reported for a ready PDF.
type PDFMeta struct {
	PageCount int     `json:"page_count"`
	PageIndex int     `json:"page_index"`
	Scale     float64 `json:"scale"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Caption   string  `json:"caption"`
}

// Snapshot is a copy of the observable slot state.
type Snapshot struct {
	Side        media.Side       `json:"side"`
	Label       string           `json:"label"`
	State       State            `json:"state"`
	SourceKind  media.SourceKind `json:"source_kind,omitempty"`
	MediaKind   media.Kind       `json:"media_kind,omitempty"`
	Name        string           `json:"name,omitempty"`
	Image       *ImageMeta       `json:"image,omitempty"`
	PDF         *PDFMeta         `json:"pdf,omitempty"`
	Error       string           `json:"error,omitempty"`
	ContentType string           `json:"content_type,omitempty"`
	Seq         uint64           `json:"seq"`
	Preview     []byte           `json:"-"`
}

// Metadata is what the orchestrator may read from a ready slot.
type Metadata struct {
	Side       media.Side
	Name       string
	SourceKind media.SourceKind
	MediaKind  media.Kind
	Image      *ImageMeta
	PDF        *PDFMeta
}

// ChangeFunc is called outside the slot lock after every transition.
type ChangeFunc func(side media.Side, state State)

// Task is a handle on one load request.
type Task struct {
	Seq  uint64
	done chan struct{}
}

// Done is closed once the load has settled, applied or dropped.
func (t *Task) Done() <-chan struct{} { return t.done }

// Slot is safe for concurrent use.
type Slot struct {
	images ImageLoader
	pdfs   PDFLoader
	log    zerolog.Logger

	mu       sync.Mutex
	side     media.Side
	onChange ChangeFunc
	snap     Snapshot
	err      error
	seq      uint64
	cancel   context.CancelFunc
}

// New creates an empty slot for side.
func New(side media.Side, images ImageLoader, pdfs PDFLoader) *Slot {
	s := &Slot{
		images: images,
		pdfs:   pdfs,
		log:    logger.Component("slot"),
		side:   side,
	}
	s.snap = s.emptyLocked()
	return s
}

// OnChange installs the transition callback.
func (s *Slot) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Side returns the slot's current side.
func (s *Slot) Side() media.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side
}

// SetSide relabels the slot. Used when the workspace swaps sides.
func (s *Slot) SetSide(side media.Side) {
	s.mu.Lock()
	s.side = side
	s.snap.Side = side
	s.snap.Label = side.Label()
	s.mu.Unlock()
}

// Request starts loading src. A source that does not match mode moves the
// slot to Error synchronously and returns *media.UnsupportedTypeError; no
// loader runs. Any in-flight load is invalidated in both cases.
func (s *Slot) Request(src media.Source, mode media.Mode, containerWidth int) (*Task, error) {
	kind := media.Resolve(src, mode)

	s.mu.Lock()
	s.invalidateLocked()
	seq := s.seq

	if kind == media.KindUnknown {
		err := &media.UnsupportedTypeError{Name: src.Name, Mode: mode, URL: src.Kind == media.SourceURL}
		s.err = err
		s.snap = Snapshot{
			Side:       s.side,
			Label:      s.side.Label(),
			State:      StateError,
			SourceKind: src.Kind,
			MediaKind:  media.KindUnknown,
			Name:       src.Name,
			Error:      media.Message(err),
			Seq:        seq,
		}
		side, notify := s.side, s.onChange
		s.mu.Unlock()

		s.pdfs.Cancel()
		metrics.ObserveLoad(string(media.KindUnknown), string(src.Kind), "unsupported", 0)
		s.log.Info().Str("side", string(side)).Str("name", src.Name).Str("mode", string(mode)).Msg("unsupported source rejected")
		if notify != nil {
			notify(side, StateError)
		}
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.err = nil
	s.snap = Snapshot{
		Side:       s.side,
		Label:      s.side.Label(),
		State:      StateLoading,
		SourceKind: src.Kind,
		MediaKind:  kind,
		Name:       src.Name,
		Seq:        seq,
	}
	task := &Task{Seq: seq, done: make(chan struct{})}
	side, notify := s.side, s.onChange
	s.mu.Unlock()

	if kind != media.KindPDF {
		s.pdfs.Cancel()
	}
	s.log.Info().Str("side", string(side)).Uint64("seq", seq).Str("media", string(kind)).Str("source", string(src.Kind)).Str("name", src.Name).Msg("load requested")
	if notify != nil {
		notify(side, StateLoading)
	}

	go s.run(ctx, task, src, kind, containerWidth)
	return task, nil
}

// Reset invalidates any in-flight load and returns the slot to Empty.
func (s *Slot) Reset() {
	s.mu.Lock()
	s.invalidateLocked()
	s.err = nil
	s.snap = s.emptyLocked()
	side, notify := s.side, s.onChange
	s.mu.Unlock()

	s.pdfs.Cancel()
	if notify != nil {
		notify(side, StateEmpty)
	}
}

// IsReady reports whether the slot holds a displayed document.
func (s *Slot) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.State == StateReady
}

// State returns the current state.
func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.State
}

// CurrentError returns the error behind an Error state, or nil.
func (s *Slot) CurrentError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.State != StateError {
		return nil
	}
	return s.err
}

// Metadata returns the ready document's metadata.
func (s *Slot) Metadata() (Metadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.State != StateReady {
		return Metadata{}, false
	}
	return Metadata{
		Side:       s.side,
		Name:       s.snap.Name,
		SourceKind: s.snap.SourceKind,
		MediaKind:  s.snap.MediaKind,
		Image:      s.snap.Image,
		PDF:        s.snap.PDF,
	}, true
}

// Snapshot returns a copy of the slot state.
func (s *Slot) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Slot) emptyLocked() Snapshot {
	return Snapshot{Side: s.side, Label: s.side.Label(), State: StateEmpty, Seq: s.seq}
}

// invalidateLocked makes any pending result stale.
func (s *Slot) invalidateLocked() {
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Slot) run(ctx context.Context, task *Task, src media.Source, kind media.Kind, width int) {
	defer close(task.done)
	start := time.Now()

	var next Snapshot
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("loader panic: %v", r)
			}
		}()
		next, err = s.load(ctx, src, kind, width)
	}()

	if errors.Is(err, pdfpreview.ErrSuperseded) {
		s.drop(task, kind)
		return
	}
	s.settle(task, src, kind, next, err, time.Since(start))
}

func (s *Slot) load(ctx context.Context, src media.Source, kind media.Kind, width int) (Snapshot, error) {
	switch kind {
	case media.KindImage:
		res, err := s.images.Load(ctx, src)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{
			Image:       &ImageMeta{Width: res.Width, Height: res.Height, Format: res.Format},
			ContentType: res.ContentType,
			Preview:     res.Data,
		}, nil
	case media.KindPDF:
		res, err := s.pdfs.Load(ctx, src, width)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{
			PDF: &PDFMeta{
				PageCount: res.PageCount,
				PageIndex: res.PageIndex,
				Scale:     res.Scale,
				Width:     res.Width,
				Height:    res.Height,
				Caption:   res.Caption(),
			},
			ContentType: res.ContentType,
			Preview:     res.Data,
		}, nil
	}
	return Snapshot{}, fmt.Errorf("no loader for %s", kind)
}

// settle applies a result only if task is still the current request.
func (s *Slot) settle(task *Task, src media.Source, kind media.Kind, next Snapshot, err error, took time.Duration) {
	s.mu.Lock()
	if task.Seq != s.seq {
		s.mu.Unlock()
		s.drop(task, kind)
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	next.Side = s.side
	next.Label = s.side.Label()
	next.SourceKind = src.Kind
	next.MediaKind = kind
	next.Name = src.Name
	next.Seq = task.Seq
	result := "ok"
	if err != nil {
		result = "error"
		next = Snapshot{
			Side:       s.side,
			Label:      s.side.Label(),
			State:      StateError,
			SourceKind: src.Kind,
			MediaKind:  kind,
			Name:       src.Name,
			Error:      media.Message(err),
			Seq:        task.Seq,
		}
	} else {
		next.State = StateReady
	}
	s.err = err
	s.snap = next
	side, notify := s.side, s.onChange
	s.mu.Unlock()

	metrics.ObserveLoad(string(kind), string(src.Kind), result, took)
	ev := s.log.Info()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("side", string(side)).Uint64("seq", task.Seq).Str("media", string(kind)).Str("state", string(next.State)).Dur("took", took).Msg("load settled")

	if notify != nil {
		notify(side, next.State)
	}
}

func (s *Slot) drop(task *Task, kind media.Kind) {
	metrics.IncSuperseded(string(kind))
	s.log.Debug().Uint64("seq", task.Seq).Str("media", string(kind)).Msg("stale load result dropped")
}
