package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chart label values
const (
	ChartTimeline = "timeline"
	ChartCashflow = "cashflow"
)

// Unlock result label values
const (
	UnlockSuccess = "success"
	UnlockFailure = "failure"
)

var (
	Derivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventureflow_derivations_total",
		Help: "Total number of chart derivations",
	}, []string{"chart"})

	DerivationsEmpty = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventureflow_derivations_empty_total",
		Help: "Total number of chart derivations with no qualifying record",
	}, []string{"chart"})

	PresetUnlockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventureflow_preset_unlock_attempts_total",
		Help: "Total number of preset unlock attempts",
	}, []string{"result"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ventureflow_sessions_active",
		Help: "Number of live sessions",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ventureflow_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	GRPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ventureflow_grpc_requests_total",
		Help: "Total number of gRPC requests",
	}, []string{"method", "code"})
)
