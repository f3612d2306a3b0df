package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// PlansTotal counts planning calls by outcome (ok, invalid, error).
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plans_total", Help: "Delivery planning calls by outcome."},
		[]string{"outcome"},
	)
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "plan_duration_seconds", Help: "Time spent computing a delivery plan.", Buckets: prometheus.DefBuckets},
	)
	PlanAreas = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "plan_areas", Help: "Delivery areas per plan.", Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34}},
	)
	UnplacedRecipients = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "plan_unplaced_recipients_total", Help: "Recipients excluded from plans for lack of coordinates."},
	)
	ConvergenceMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "plan_convergence_misses_total", Help: "Plans whose clustering hit the iteration cap."},
	)
	// GeocodeLookups counts address lookups by source (cache, provider).
	GeocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_lookups_total", Help: "Address lookups by source."},
		[]string{"source"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(
			PlansTotal,
			PlanDuration,
			PlanAreas,
			UnplacedRecipients,
			ConvergenceMisses,
			GeocodeLookups,
			HTTPRequests,
			HTTPDuration,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
