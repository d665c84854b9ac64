package folio

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "folio"

// Metrics records build and reindex activity.
type Metrics struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesWritten  *prom.CounterVec
	assets        *prom.CounterVec
	indexedNodes  prom.Gauge
	reindexes     *prom.CounterVec
}

// NewMetrics constructs the build metrics and registers them with reg.
func NewMetrics(reg prom.Registerer) *Metrics {
	m := &Metrics{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Total static build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_written_total",
			Help:      "Pages written by the static build, by kind",
		}, []string{"kind"}),
		assets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assets_published_total",
			Help:      "Content assets published, by whether they were resized",
		}, []string{"resized"}),
		indexedNodes: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "indexed_nodes",
			Help:      "Content nodes in the index after the last reindex",
		}),
		reindexes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reindex_total",
			Help:      "Reindex runs by trigger and result",
		}, []string{"trigger", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.buildDuration, m.buildOutcome, m.pagesWritten, m.assets, m.indexedNodes, m.reindexes)
	}
	return m
}

func (m *Metrics) observeBuild(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	m.buildOutcome.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incPage(kind string) {
	if m == nil {
		return
	}
	m.pagesWritten.WithLabelValues(kind).Inc()
}

func (m *Metrics) incAsset(resized bool) {
	if m == nil {
		return
	}
	label := "false"
	if resized {
		label = "true"
	}
	m.assets.WithLabelValues(label).Inc()
}

func (m *Metrics) observeReindex(trigger string, nodes int, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failed"
	} else {
		m.indexedNodes.Set(float64(nodes))
	}
	m.reindexes.WithLabelValues(trigger, result).Inc()
}
