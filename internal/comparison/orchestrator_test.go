package comparison

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/scoring"
	"github.com/local/doccompare/internal/slot"
)

type stubSlot struct {
	ready bool
	name  string
}

func (s *stubSlot) IsReady() bool { return s.ready }

func (s *stubSlot) Metadata() (slot.Metadata, bool) {
	if !s.ready {
		return slot.Metadata{}, false
	}
	return slot.Metadata{Name: s.name}, true
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) SaveReport(ctx context.Context, workspaceID string, report *scoring.Report) error {
	args := m.Called(ctx, workspaceID, report)
	return args.Error(0)
}

func (m *MockCache) DeleteReport(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func gate(o *Orchestrator) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

func newOrchestrator(a, b *stubSlot, cache ReportCache) *Orchestrator {
	return New("ws-1", func() (Slot, Slot) { return a, b }, scoring.NewStatic(), cache)
}

func TestCanCompare(t *testing.T) {
	a := &stubSlot{ready: true}
	b := &stubSlot{}
	o := newOrchestrator(a, b, nil)
	assert.False(t, o.CanCompare())

	b.ready = true
	assert.True(t, o.CanCompare())
}

func TestRunComparison_PreconditionWhenNotReady(t *testing.T) {
	o := newOrchestrator(&stubSlot{ready: true}, &stubSlot{}, nil)

	report, err := o.RunComparison(context.Background())
	assert.Nil(t, report)
	var precondition *media.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, "compare", precondition.Op)
	assert.Nil(t, o.Report())
}

func TestRunComparison_CachesReport(t *testing.T) {
	cache := new(MockCache)
	cache.On("SaveReport", mock.Anything, "ws-1", mock.AnythingOfType("*scoring.Report")).Return(nil)
	cache.On("DeleteReport", mock.Anything, "ws-1").Return(nil)
	o := newOrchestrator(&stubSlot{ready: true, name: "a.png"}, &stubSlot{ready: true, name: "b.png"}, cache)

	report, err := o.RunComparison(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 76, report.Overall.A)
	assert.Equal(t, 82, report.Overall.B)
	assert.Same(t, report, o.Report())

	second, err := o.RunComparison(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, report, second, "each run replaces the report wholesale")
	assert.Same(t, second, o.Report())

	o.Clear()
	assert.Nil(t, o.Report())
	cache.AssertExpectations(t)
}

func TestClear_CacheFailureIsNotFatal(t *testing.T) {
	cache := new(MockCache)
	cache.On("SaveReport", mock.Anything, "ws-1", mock.Anything).Return(nil)
	cache.On("DeleteReport", mock.Anything, "ws-1").Return(errors.New("redis down"))
	o := newOrchestrator(&stubSlot{ready: true}, &stubSlot{ready: true}, cache)

	_, err := o.RunComparison(context.Background())
	require.NoError(t, err)
	o.Clear()
	assert.Nil(t, o.Report())
	cache.AssertCalled(t, "DeleteReport", mock.Anything, "ws-1")
}

func TestRunComparison_CacheFailureIsNotFatal(t *testing.T) {
	cache := new(MockCache)
	cache.On("SaveReport", mock.Anything, "ws-1", mock.Anything).Return(errors.New("redis down"))
	o := newOrchestrator(&stubSlot{ready: true}, &stubSlot{ready: true}, cache)

	report, err := o.RunComparison(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestSlotChanged_TracksGate(t *testing.T) {
	a := &stubSlot{}
	b := &stubSlot{ready: true}
	o := newOrchestrator(a, b, nil)
	assert.False(t, gate(o))

	a.ready = true
	o.SlotChanged(media.SideA, slot.StateReady)
	assert.True(t, gate(o))

	b.ready = false
	o.SlotChanged(media.SideB, slot.StateLoading)
	assert.False(t, gate(o))
}
