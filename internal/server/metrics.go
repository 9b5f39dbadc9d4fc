package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemscan_scan_requests_total",
			Help: "Total number of scan requests",
		},
		[]string{"status"}, // ok, bad_request, busy, error
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemscan_scan_duration_seconds",
			Help:    "Screenshot analysis duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	scanDetections = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemscan_scan_detections",
			Help:    "Number of items detected per scan",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20, 30},
		},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itemscan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)
