package metrics

import (
    "net/http"
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    loadsTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "doccompare",
            Name:      "loads_total",
            Help:      "Preview loads settled by media kind, source kind and result",
        },
        []string{"media", "source", "result"},
    )

    loadDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "doccompare",
            Name:      "load_duration_seconds",
            Help:      "Duration of preview loads by media kind",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"media"},
    )

    supersededTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "doccompare",
            Name:      "superseded_total",
            Help:      "Load results discarded because a newer load or reset replaced them",
        },
        []string{"media"},
    )

    pdfTasksDestroyed = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "doccompare",
            Name:      "pdf_tasks_destroyed_total",
            Help:      "Pending PDF decode tasks destroyed by a newer load",
        },
    )

    comparisonsTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "doccompare",
            Name:      "comparisons_total",
            Help:      "Comparison runs by result (ok, precondition)",
        },
        []string{"result"},
    )

    workspacesActive = prometheus.NewGauge(
        prometheus.GaugeOpts{
            Namespace: "doccompare",
            Name:      "workspaces_active",
            Help:      "Workspaces currently held in memory",
        },
    )

    renderGauge prometheus.Collector

    registerOnce sync.Once
    renderOnce   sync.Once
)

// Init registers collectors.
func Init() {
    registerOnce.Do(func() {
        prometheus.MustRegister(loadsTotal, loadDuration, supersededTotal, pdfTasksDestroyed, comparisonsTotal, workspacesActive)
    })
}

// RegisterRenderGauge exports the number of PDF renders currently holding a
// limiter slot. Only the first call registers.
func RegisterRenderGauge(inFlight func() int) {
    renderOnce.Do(func() {
        renderGauge = prometheus.NewGaugeFunc(
            prometheus.GaugeOpts{
                Namespace: "doccompare",
                Name:      "pdf_renders_in_flight",
                Help:      "PDF documents currently open for rendering",
            },
            func() float64 { return float64(inFlight()) },
        )
        prometheus.MustRegister(renderGauge)
    })
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveLoad(mediaKind, source, result string, dur time.Duration) {
    loadsTotal.WithLabelValues(mediaKind, source, result).Inc()
    loadDuration.WithLabelValues(mediaKind).Observe(dur.Seconds())
}

func IncSuperseded(mediaKind string) { supersededTotal.WithLabelValues(mediaKind).Inc() }
func IncPDFTaskDestroyed()           { pdfTasksDestroyed.Inc() }
func IncComparison(result string)    { comparisonsTotal.WithLabelValues(result).Inc() }
func SetWorkspaces(n int)            { workspacesActive.Set(float64(n)) }
