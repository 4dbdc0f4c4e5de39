package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "doccompare.log")
	var console bytes.Buffer
	require.NoError(t, Init(Options{Level: "debug", File: file, MaxSizeMB: 1, Console: &console}))
	defer Close()

	global.Info().Msg("preview pipeline ready")
	c := Component("slot")
	c.Warn().Str("side", "a").Msg("superseded")
	w := Workspace("ws-1")
	w.Info().Msg("compare enabled")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "preview pipeline ready")
	assert.Contains(t, out, `"service":"doccompare"`)
	assert.Contains(t, out, `"component":"slot"`)
	assert.Contains(t, out, `"workspace":"ws-1"`)
	assert.Contains(t, console.String(), "preview pipeline ready")
}

func TestInit_BadLevelDefaultsToInfo(t *testing.T) {
	var console bytes.Buffer
	require.NoError(t, Init(Options{Level: "loud", Console: &console}))
	defer Close()

	global.Debug().Msg("hidden")
	global.Info().Msg("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestAxiomSink_FiltersAndDrops(t *testing.T) {
	s := &axiomSink{min: zerolog.InfoLevel, events: make(chan axiom.Event, 1)}

	_, err := s.WriteLevel(zerolog.DebugLevel, []byte(`{"level":"debug","message":"noise"}`))
	require.NoError(t, err)
	assert.Empty(t, s.events)

	_, err = s.WriteLevel(zerolog.WarnLevel, []byte(`{"level":"warn","message":"slow render"}`))
	require.NoError(t, err)
	_, err = s.WriteLevel(zerolog.ErrorLevel, []byte(`{"level":"error","message":"overflow"}`))
	require.NoError(t, err)

	ev := <-s.events
	assert.Equal(t, "slow render", ev["message"])
	assert.Contains(t, ev, "_time")
	assert.EqualValues(t, 1, s.dropped.Load())
}
