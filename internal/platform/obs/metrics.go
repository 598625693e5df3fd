package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmanet_operations_total",
			Help: "Ledger operations by name and result.",
		},
		[]string{"op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmanet_operation_duration_seconds",
			Help:    "Duration of ledger operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// Record one finished operation.
func Observe(name string, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(name, result).Inc()
	operationDuration.WithLabelValues(name).Observe(dur.Seconds())
}

// Handler serves the metrics registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
