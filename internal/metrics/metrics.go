package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the insights service.
type Metrics struct {
	// Ingest metrics
	Uploads      *prometheus.CounterVec
	RowsIngested *prometheus.CounterVec
	DatasetRows  *prometheus.GaugeVec

	// Analysis metrics
	AnalysisRequests *prometheus.CounterVec
	AnalysisLatency  *prometheus.HistogramVec
	CampaignsScored  prometheus.Gauge

	// Warehouse metrics
	WarehouseQueries      *prometheus.CounterVec
	WarehouseQueryLatency *prometheus.HistogramVec

	// Report metrics
	ReportOps *prometheus.CounterVec

	// System metrics
	DBConnections *prometheus.GaugeVec
	RateLimitHits *prometheus.CounterVec
}

var (
	// DefaultMetrics is the global metrics instance
	DefaultMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		Uploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "CSV uploads by export kind and outcome",
			},
			[]string{"kind", "status"},
		),
		RowsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_ingested_total",
				Help:      "Rows accepted from uploads and warehouse syncs",
			},
			[]string{"kind"},
		),
		DatasetRows: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows in the active dataset",
			},
			[]string{"kind"},
		),

		AnalysisRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_requests_total",
				Help:      "Analysis requests by endpoint and cache outcome",
			},
			[]string{"endpoint", "cache"},
		),
		AnalysisLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_latency_seconds",
				Help:      "Analysis computation latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"endpoint"},
		),
		CampaignsScored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "campaigns_scored",
				Help:      "Campaigns in the active ranked list",
			},
		),

		WarehouseQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warehouse_queries_total",
				Help:      "Warehouse queries by table kind and outcome",
			},
			[]string{"table", "status"},
		),
		WarehouseQueryLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "warehouse_query_latency_seconds",
				Help:      "Warehouse query latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
			[]string{"table"},
		),

		ReportOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_operations_total",
				Help:      "Saved report operations by verb and outcome",
			},
			[]string{"op", "status"},
		),

		DBConnections: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool state",
			},
			[]string{"state"},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"endpoint"},
		),
	}

	DefaultMetrics = m
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordUpload records a CSV upload outcome.
func (m *Metrics) RecordUpload(kind, status string, rows int) {
	m.Uploads.WithLabelValues(kind, status).Inc()
	if rows > 0 {
		m.RowsIngested.WithLabelValues(kind).Add(float64(rows))
	}
}

// RecordAnalysis records an analysis request and its latency.
func (m *Metrics) RecordAnalysis(endpoint, cache string, latency time.Duration) {
	m.AnalysisRequests.WithLabelValues(endpoint, cache).Inc()
	m.AnalysisLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordWarehouseQuery records a warehouse query outcome.
func (m *Metrics) RecordWarehouseQuery(table, status string, latency time.Duration) {
	m.WarehouseQueries.WithLabelValues(table, status).Inc()
	m.WarehouseQueryLatency.WithLabelValues(table).Observe(latency.Seconds())
}

// RecordReportOp records a saved report operation.
func (m *Metrics) RecordReportOp(op, status string) {
	m.ReportOps.WithLabelValues(op, status).Inc()
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// UpdateDatasetSize updates the active dataset gauges.
func (m *Metrics) UpdateDatasetSize(summaryRows, dailyRows int) {
	m.DatasetRows.WithLabelValues("summary").Set(float64(summaryRows))
	m.DatasetRows.WithLabelValues("daily").Set(float64(dailyRows))
	m.CampaignsScored.Set(float64(summaryRows))
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}
