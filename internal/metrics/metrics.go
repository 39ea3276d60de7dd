package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec   // method, path template, status
	HTTPRequestDuration *prometheus.HistogramVec // method, path template
	DBQueryDuration     *prometheus.HistogramVec // statement: select, insert, update, delete, other
	SentimentCalls      *prometheus.CounterVec   // kind: outlet, day; result: ok, cached, error
	ExportDuration      prometheus.Histogram
	ArchivedAnalyses    *prometheus.CounterVec // result: ok, error
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pdv_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdv_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdv_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"statement"}),
		SentimentCalls: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pdv_sentiment_calls_total",
			Help: "Sentiment summaries requested, by kind and result",
		}, []string{"kind", "result"}),
		ExportDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "pdv_customer_export_duration_seconds",
			Help: "Duration of customer workbook generation.",
		}),
		ArchivedAnalyses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pdv_archived_analyses_total",
			Help: "Day analyses written to object storage",
		}, []string{"result"}),
	}
}
