package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(supersededTotal.WithLabelValues("pdf"))
	IncSuperseded("pdf")
	assert.Equal(t, before+1, testutil.ToFloat64(supersededTotal.WithLabelValues("pdf")))

	ObserveLoad("image", "file", "ready", 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(loadsTotal.WithLabelValues("image", "file", "ready")), 1.0)

	SetWorkspaces(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(workspacesActive))
}

func TestRenderGauge(t *testing.T) {
	n := 3
	RegisterRenderGauge(func() int { return n })
	RegisterRenderGauge(func() int { return 99 })
	assert.Equal(t, 3.0, testutil.ToFloat64(renderGauge))

	n = 1
	assert.Equal(t, 1.0, testutil.ToFloat64(renderGauge))
}
