package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total de requests de matching por metodo",
		},
		[]string{"method"},
	)

	MatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_failures_total",
			Help: "Total de requests de matching fallidos por metodo y tipo",
		},
		[]string{"method", "kind"},
	)

	MatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "match_duration_seconds",
			Help: "Duracion del request de matching en segundos",
		},
		[]string{"method"},
	)

	MatchPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_pool_size",
			Help:    "Cantidad de candidatos elegibles por request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)
