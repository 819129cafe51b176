package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors fed by the Tracker. Each
// Metrics owns its registry so tests and multiple apps don't collide.
type Metrics struct {
	Registry *prometheus.Registry

	Cycles        *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	Posted        prometheus.Counter
	Questions     prometheus.Gauge
	Remaining     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qotd_cycles_total",
				Help: "Cycles run, by result",
			},
			[]string{"result"},
		),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qotd_cycle_duration_seconds",
			Help:    "Duration of a cycle in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		}),
		Posted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qotd_questions_posted_total",
			Help: "Questions delivered",
		}),
		Questions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qotd_questions",
			Help: "Questions in the collection after the last successful cycle",
		}),
		Remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qotd_questions_unanswered",
			Help: "Unanswered questions after the last delivery",
		}),
	}
	reg.MustRegister(
		m.Cycles,
		m.CycleDuration,
		m.Posted,
		m.Questions,
		m.Remaining,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
