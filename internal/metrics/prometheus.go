package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	metricPrefix = "pdm_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	readingsIngested *prometheus.CounterVec
	ingestErrors     *prometheus.CounterVec

	predictionsTotal  *prometheus.CounterVec
	predictionLatency *prometheus.HistogramVec

	fleetMachines     *prometheus.GaugeVec
	fleetHealthy      prometheus.Gauge
	statusTransitions *prometheus.CounterVec
	evaluationLatency prometheus.Histogram

	circuitBreakerState *prometheus.GaugeVec
)

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)

		readingsIngested = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_ingested_total",
				Help: "Total sensor readings accepted by source",
			},
			[]string{"source"},
		)
		ingestErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_errors_total",
				Help: "Total rejected ingestion payloads by source and reason",
			},
			[]string{"source", "reason"},
		)

		predictionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "predictions_total",
				Help: "Total failure predictions by recommendation priority",
			},
			[]string{"priority"},
		)
		predictionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "prediction_latency_seconds",
				Help:    "Prediction latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		fleetMachines = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "fleet_machines",
				Help: "Machines per health status at the last evaluation",
			},
			[]string{"status"},
		)
		fleetHealthy = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "fleet_health_percentage",
				Help: "Share of machines in normal status at the last evaluation",
			},
		)
		statusTransitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_transitions_total",
				Help: "Machine status transitions by target status",
			},
			[]string{"to"},
		)
		evaluationLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fleet_evaluation_latency_seconds",
				Help:    "Fleet evaluation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		circuitBreakerState = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			readingsIngested,
			ingestErrors,
			predictionsTotal,
			predictionLatency,
			fleetMachines,
			fleetHealthy,
			statusTransitions,
			evaluationLatency,
			circuitBreakerState,
		)
	})
}

func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

func ObserveHTTPRequest(route, method string, code int, d time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

func AddReadingsIngested(source string, n int) {
	if readingsIngested == nil || n <= 0 {
		return
	}
	readingsIngested.WithLabelValues(source).Add(float64(n))
}

func IncIngestError(source, reason string) {
	if ingestErrors == nil {
		return
	}
	ingestErrors.WithLabelValues(source, reason).Inc()
}

func ObservePrediction(priority models.Priority, d time.Duration) {
	if predictionsTotal == nil {
		return
	}
	predictionsTotal.WithLabelValues(string(priority)).Inc()
	predictionLatency.WithLabelValues(ResultSuccess).Observe(d.Seconds())
}

func ObservePredictionError(d time.Duration) {
	if predictionLatency == nil {
		return
	}
	predictionLatency.WithLabelValues(ResultError).Observe(d.Seconds())
}

func SetFleetSummary(s *models.FleetSummary) {
	if fleetMachines == nil || s == nil {
		return
	}
	fleetMachines.WithLabelValues(string(models.HealthNormal)).Set(float64(s.NormalMachines))
	fleetMachines.WithLabelValues(string(models.HealthWarning)).Set(float64(s.WarningMachines))
	fleetMachines.WithLabelValues(string(models.HealthCritical)).Set(float64(s.CriticalMachines))
	fleetHealthy.Set(s.NormalPercentage)
}

func IncStatusTransition(to models.HealthStatus) {
	if statusTransitions == nil {
		return
	}
	statusTransitions.WithLabelValues(string(to)).Inc()
}

func ObserveEvaluation(d time.Duration) {
	if evaluationLatency == nil {
		return
	}
	evaluationLatency.Observe(d.Seconds())
}

// SetCircuitBreakerState records a breaker state by its string name.
func SetCircuitBreakerState(name, state string) {
	if circuitBreakerState == nil {
		return
	}
	var v float64
	switch state {
	case "open":
		v = 1
	case "half-open":
		v = 2
	}
	circuitBreakerState.WithLabelValues(name).Set(v)
}
