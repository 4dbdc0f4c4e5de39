// Package workspace composes two slots and an orchestrator into the unit a
// browser tab works against.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/comparison"
	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/scoring"
	"github.com/local/doccompare/internal/slot"
)

// Deps are the collaborators shared by every workspace.
type Deps struct {
	Images slot.ImageLoader
	// NewPDFLoader returns a fresh loader; each slot owns one.
	NewPDFLoader   func() slot.PDFLoader
	Scorer         scoring.Scorer
	Cache          comparison.ReportCache
	ContainerWidth int
}

// Snapshot is the observable workspace state.
type Snapshot struct {
	ID         string        `json:"id"`
	Mode       media.Mode    `json:"mode"`
	A          slot.Snapshot `json:"a"`
	B          slot.Snapshot `json:"b"`
	CanCompare bool          `json:"can_compare"`
	HasReport  bool          `json:"has_report"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Workspace is safe for concurrent use.
type Workspace struct {
	id           string
	defaultWidth int
	orch         *comparison.Orchestrator

	mu       sync.Mutex
	mode     media.Mode
	a, b     *slot.Slot
	lastUsed time.Time
}

// New builds a workspace in mode with two empty slots.
func New(id string, mode media.Mode, deps Deps) *Workspace {
	width := deps.ContainerWidth
	if width <= 0 {
		width = 800
	}
	w := &Workspace{
		id:           id,
		defaultWidth: width,
		mode:         mode,
		a:            slot.New(media.SideA, deps.Images, deps.NewPDFLoader()),
		b:            slot.New(media.SideB, deps.Images, deps.NewPDFLoader()),
		lastUsed:     time.Now(),
	}
	w.orch = comparison.New(id, w.slots, deps.Scorer, deps.Cache)
	w.a.OnChange(w.orch.SlotChanged)
	w.b.OnChange(w.orch.SlotChanged)
	return w
}

func (w *Workspace) slots() (comparison.Slot, comparison.Slot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.a, w.b
}

// ID returns the workspace id.
func (w *Workspace) ID() string { return w.id }

// Mode returns the current mode.
func (w *Workspace) Mode() media.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Slot returns the slot currently on side.
func (w *Workspace) Slot(side media.Side) *slot.Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotLocked(side)
}

func (w *Workspace) slotLocked(side media.Side) *slot.Slot {
	if side == media.SideB {
		return w.b
	}
	return w.a
}

// SetMode switches mode and resets the workspace. Setting the current mode
// is a no-op. It reports whether the mode changed.
func (w *Workspace) SetMode(m media.Mode) bool {
	w.mu.Lock()
	if w.mode == m {
		w.mu.Unlock()
		return false
	}
	w.mode = m
	w.lastUsed = time.Now()
	w.mu.Unlock()

	log.Info().Str("workspace", w.id).Str("mode", string(m)).Msg("mode changed")
	w.Reset()
	return true
}

// Load requests src into the slot on side. A non-positive width selects the
// default container width.
func (w *Workspace) Load(side media.Side, src media.Source, width int) (*slot.Task, error) {
	if width <= 0 {
		width = w.defaultWidth
	}
	w.mu.Lock()
	s := w.slotLocked(side)
	mode := w.mode
	w.lastUsed = time.Now()
	w.mu.Unlock()

	return s.Request(src, mode, width)
}

// LoadFile loads an uploaded file into side.
func (w *Workspace) LoadFile(side media.Side, name string, data []byte, width int) (*slot.Task, error) {
	return w.Load(side, media.FileFromBytes(name, data), width)
}

// LoadURL loads a remote document into side.
func (w *Workspace) LoadURL(side media.Side, rawURL string, width int) (*slot.Task, error) {
	return w.Load(side, media.URLSource(rawURL), width)
}

// SwitchSides exchanges the two slots. In-flight loads follow their slot.
// Calling it twice restores the original arrangement.
func (w *Workspace) SwitchSides() {
	w.mu.Lock()
	w.a, w.b = w.b, w.a
	w.a.SetSide(media.SideA)
	w.b.SetSide(media.SideB)
	a := w.a
	w.lastUsed = time.Now()
	w.mu.Unlock()

	log.Info().Str("workspace", w.id).Msg("sides switched")
	w.orch.SlotChanged(media.SideA, a.State())
}

// Reset empties both slots and drops the report.
func (w *Workspace) Reset() {
	w.mu.Lock()
	a, b := w.a, w.b
	w.lastUsed = time.Now()
	w.mu.Unlock()

	a.Reset()
	b.Reset()
	w.orch.Clear()
}

// CanCompare reports whether both slots are ready.
func (w *Workspace) CanCompare() bool { return w.orch.CanCompare() }

// Compare runs the comparison.
func (w *Workspace) Compare(ctx context.Context) (*scoring.Report, error) {
	w.touch()
	return w.orch.RunComparison(ctx)
}

// Report returns the most recent report, or nil.
func (w *Workspace) Report() *scoring.Report { return w.orch.Report() }

// Snapshot captures both slots and the gate at one instant.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	snap := Snapshot{
		ID:        w.id,
		Mode:      w.mode,
		A:         w.a.Snapshot(),
		B:         w.b.Snapshot(),
		UpdatedAt: w.lastUsed,
	}
	w.mu.Unlock()
	snap.CanCompare = snap.A.State == slot.StateReady && snap.B.State == slot.StateReady
	snap.HasReport = w.orch.Report() != nil
	return snap
}

// LastUsed returns the time of the last mutating call.
func (w *Workspace) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
}

// close cancels any in-flight loads.
func (w *Workspace) close() {
	w.Reset()
}
