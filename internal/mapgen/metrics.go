package mapgen

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// generatorMetrics holds the Prometheus instruments for one generation
// run, lazily registered on first use.
type generatorMetrics struct {
	once sync.Once

	filesScanned   prometheus.Counter
	filesParsed    prometheus.Counter
	parseWarnings  prometheus.Counter
	brokenImports  prometheus.Counter
	cyclesFound    prometheus.Counter
	artifactsWritten prometheus.Counter

	scanDuration     prometheus.Histogram
	parseDuration    prometheus.Histogram
	generateDuration prometheus.Histogram
}

var metrics generatorMetrics

func (m *generatorMetrics) init() {
	m.once.Do(func() {
		m.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_scan_files_total", Help: "Total files discovered by the scanner",
		})
		m.filesParsed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_parse_files_total", Help: "Total files run through a language parser",
		})
		m.parseWarnings = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_parse_warnings_total", Help: "Total parse warnings accumulated across all files",
		})
		m.brokenImports = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_broken_imports_total", Help: "Total internal imports that failed to resolve",
		})
		m.cyclesFound = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_cycles_total", Help: "Total circular dependency chains detected",
		})
		m.artifactsWritten = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projectmap_artifacts_written_total", Help: "Total map artifacts written to disk",
		})

		buckets := []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}
		m.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "projectmap_scan_seconds", Help: "Duration of the scanner pass", Buckets: buckets,
		})
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "projectmap_parse_seconds", Help: "Duration of the parser pass", Buckets: buckets,
		})
		m.generateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "projectmap_generate_seconds", Help: "Duration of full artifact generation", Buckets: buckets,
		})

		prometheus.MustRegister(
			m.filesScanned, m.filesParsed, m.parseWarnings, m.brokenImports,
			m.cyclesFound, m.artifactsWritten,
			m.scanDuration, m.parseDuration, m.generateDuration,
		)
	})
}
