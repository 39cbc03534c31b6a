package provstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provstore_client",
			Name:      "requests_total",
			Help:      "API operations attempted, labelled by operation.",
		},
		[]string{"operation"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "provstore_client",
			Name:      "request_failures_total",
			Help:      "API operations that returned an error, labelled by operation.",
		},
		[]string{"operation"},
	)
)

// observe counts one finished operation against the default Prometheus
// registry.
func observe(operation string, err error) {
	requestsTotal.WithLabelValues(operation).Inc()
	if err != nil {
		requestFailuresTotal.WithLabelValues(operation).Inc()
	}
}
