// Package comparison gates the compare action on both slots being ready and
// keeps the most recent report for re-display.
package comparison

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/local/doccompare/internal/logger"
	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/metrics"
	"github.com/local/doccompare/internal/scoring"
	"github.com/local/doccompare/internal/slot"
)

// Slot is the upward contract a slot exposes to the orchestrator.
type Slot interface {
	IsReady() bool
	Metadata() (slot.Metadata, bool)
}

// SlotsFunc returns the slots currently on side A and side B.
type SlotsFunc func() (a, b Slot)

// ReportCache persists the latest report outside the process.
type ReportCache interface {
	SaveReport(ctx context.Context, workspaceID string, report *scoring.Report) error
	DeleteReport(ctx context.Context, workspaceID string) error
}

const clearTimeout = 2 * time.Second

// Orchestrator is safe for concurrent use.
type Orchestrator struct {
	workspaceID string
	slots       SlotsFunc
	scorer      scoring.Scorer
	cache       ReportCache
	log         zerolog.Logger

	mu      sync.Mutex
	enabled bool
	report  *scoring.Report
}

// New creates an orchestrator. cache may be nil.
func New(workspaceID string, slots SlotsFunc, scorer scoring.Scorer, cache ReportCache) *Orchestrator {
	return &Orchestrator{
		workspaceID: workspaceID,
		slots:       slots,
		scorer:      scorer,
		cache:       cache,
		log:         logger.Workspace(workspaceID),
	}
}

// CanCompare is true only when both slots are Ready.
func (o *Orchestrator) CanCompare() bool {
	a, b := o.slots()
	return a.IsReady() && b.IsReady()
}

// SlotChanged recomputes the gate. Slots call it on every transition; the
// state argument is informational, the gate reads the slots directly.
// Slots call back outside their own lock, so they may be read under o.mu.
func (o *Orchestrator) SlotChanged(side media.Side, state slot.State) {
	o.mu.Lock()
	can := o.CanCompare()
	changed := can != o.enabled
	o.enabled = can
	o.mu.Unlock()

	if changed {
		o.log.Info().
			Str("side", string(side)).
			Str("state", string(state)).
			Bool("compare_enabled", can).
			Msg("compare gate changed")
	}
}

// RunComparison scores the pair and caches the report. It fails with
// *media.PreconditionError unless both slots are Ready.
func (o *Orchestrator) RunComparison(ctx context.Context) (*scoring.Report, error) {
	a, b := o.slots()
	metaA, okA := a.Metadata()
	metaB, okB := b.Metadata()
	if !okA || !okB {
		metrics.IncComparison("precondition")
		return nil, &media.PreconditionError{Op: "compare", Reason: "both documents must be loaded"}
	}

	report := o.scorer.Score()
	o.mu.Lock()
	o.report = &report
	o.mu.Unlock()

	if o.cache != nil {
		if err := o.cache.SaveReport(ctx, o.workspaceID, &report); err != nil {
			o.log.Warn().Err(err).Msg("failed to cache report")
		}
	}

	metrics.IncComparison("ok")
	o.log.Info().
		Str("doc_a", metaA.Name).
		Str("doc_b", metaB.Name).
		Int("overall_a", report.Overall.A).
		Int("overall_b", report.Overall.B).
		Msg("comparison completed")
	return &report, nil
}

// Report returns the most recent report, or nil.
func (o *Orchestrator) Report() *scoring.Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.report
}

// Clear drops the report from memory and from the cache.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.report = nil
	o.mu.Unlock()

	if o.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
	defer cancel()
	if err := o.cache.DeleteReport(ctx, o.workspaceID); err != nil {
		o.log.Warn().Err(err).Msg("failed to drop cached report")
	}
}
