// Package promstats provides a Prometheus implementation of
// lexgo.MetricsCollector.
package promstats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/lexgo"
)

// Collector records engine operations as Prometheus metrics.
type Collector struct {
	addsTotal      *prometheus.CounterVec
	addDuration    prometheus.Histogram
	commitsTotal   prometheus.Counter
	commitDocs     prometheus.Counter
	searchesTotal  *prometheus.CounterVec
	searchDuration prometheus.Histogram
}

var _ lexgo.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. If reg is
// nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		addsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexgo_adds_total",
				Help: "Total document add operations by status.",
			},
			[]string{"status"},
		),
		addDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexgo_add_duration_seconds",
				Help:    "Document add latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
		),
		commitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexgo_commits_total",
				Help: "Total commit operations.",
			},
		),
		commitDocs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexgo_commit_docs_total",
				Help: "Total documents flushed into segments.",
			},
		),
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexgo_searches_total",
				Help: "Total search operations by status.",
			},
			[]string{"status"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexgo_search_duration_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}

	reg.MustRegister(
		c.addsTotal,
		c.addDuration,
		c.commitsTotal,
		c.commitDocs,
		c.searchesTotal,
		c.searchDuration,
	)

	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordAdd implements lexgo.MetricsCollector.
func (c *Collector) RecordAdd(duration time.Duration, err error) {
	c.addsTotal.WithLabelValues(status(err)).Inc()
	c.addDuration.Observe(duration.Seconds())
}

// RecordCommit implements lexgo.MetricsCollector.
func (c *Collector) RecordCommit(docs int, duration time.Duration) {
	c.commitsTotal.Inc()
	c.commitDocs.Add(float64(docs))
}

// RecordSearch implements lexgo.MetricsCollector.
func (c *Collector) RecordSearch(k int, duration time.Duration, err error) {
	c.searchesTotal.WithLabelValues(status(err)).Inc()
	c.searchDuration.Observe(duration.Seconds())
}
