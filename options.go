package lexgo

import (
	"github.com/hupe1980/lexgo/analysis"
)

type options struct {
	analyzer          analysis.Analyzer
	logger            *Logger
	metrics           MetricsCollector
	searchConcurrency int
}

// Option configures engine construction.
type Option func(*options)

// WithAnalyzer configures the analyzer used to tokenize document fields.
// If nil is passed, analysis.Default is used.
func WithAnalyzer(a analysis.Analyzer) Option {
	return func(o *options) {
		if a == nil {
			a = analysis.Default
		}
		o.analyzer = a
	}
}

// WithLogger configures the structured logger. If nil is passed, logging
// is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector. If nil is passed, metrics
// collection is disabled.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithSearchConcurrency sets the maximum number of segments evaluated in
// parallel per search. Defaults to 1 (sequential).
func WithSearchConcurrency(n int) Option {
	return func(o *options) {
		o.searchConcurrency = n
	}
}
