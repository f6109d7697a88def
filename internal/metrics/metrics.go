package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "classgold",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "classgold",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	purchaseOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "classgold",
			Subsystem: "shop",
			Name:      "purchase_outcomes_total",
			Help:      "Purchase attempts by outcome.",
		},
		[]string{"outcome"},
	)

	goldMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "classgold",
			Subsystem: "wallet",
			Name:      "gold_total",
			Help:      "Gold credited or spent, by activity kind.",
		},
		[]string{"kind"},
	)

	priceUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "classgold",
			Subsystem: "shop",
			Name:      "price_updates_total",
			Help:      "Successful catalog price updates.",
		},
	)

	catalogReseeds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "classgold",
			Subsystem: "shop",
			Name:      "catalog_reseeds_total",
			Help:      "Catalogs replaced with the default seed, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		purchaseOutcomes,
		goldMoved,
		priceUpdates,
		catalogReseeds,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Instrument is mux middleware recording request counts and latency per route template.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordPurchase counts a purchase attempt by outcome.
func RecordPurchase(outcome string) {
	purchaseOutcomes.WithLabelValues(outcome).Inc()
}

// RecordGold adds the absolute amount of gold moved by an activity.
func RecordGold(kind string, amount int) {
	if amount < 0 {
		amount = -amount
	}
	goldMoved.WithLabelValues(kind).Add(float64(amount))
}

// RecordPriceUpdate counts a successful price change.
func RecordPriceUpdate() {
	priceUpdates.Inc()
}

// RecordReseed counts a catalog reseed.
func RecordReseed(reason string) {
	catalogReseeds.WithLabelValues(reason).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streams working through the recorder
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
