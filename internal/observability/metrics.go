package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics собирает счётчики цикла обновления лент
type Metrics struct {
	registry        *prometheus.Registry
	records         *prometheus.CounterVec
	blocksDropped   *prometheus.CounterVec
	generationFails *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	feedState       *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radiofeed",
			Name:      "records_total",
			Help:      "Records extracted from generated text",
		}, []string{"kind"}),
		blocksDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radiofeed",
			Name:      "blocks_dropped_total",
			Help:      "Blocks or lines discarded during extraction",
		}, []string{"kind"}),
		generationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radiofeed",
			Name:      "generation_failures_total",
			Help:      "Failed refresh cycles by reason",
		}, []string{"kind", "reason"}),
		refreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "radiofeed",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full refresh cycle",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		feedState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "radiofeed",
			Name:      "feed_state",
			Help:      "1 for the current state of each feed, 0 otherwise",
		}, []string{"kind", "state"}),
	}
	m.registry.MustRegister(m.records, m.blocksDropped, m.generationFails, m.refreshDuration, m.feedState)
	return m
}

func (m *Metrics) AddRecords(kind string, n int) {
	m.records.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AddDropped(kind string, n int) {
	if n > 0 {
		m.blocksDropped.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) IncFailure(kind, reason string) {
	m.generationFails.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) ObserveRefresh(kind string, seconds float64) {
	m.refreshDuration.WithLabelValues(kind).Observe(seconds)
}

// SetState выставляет 1 для текущего состояния и 0 для остальных
func (m *Metrics) SetState(kind, current string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		m.feedState.WithLabelValues(kind, s).Set(v)
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
