package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

var (
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lightbnb", Name: "db_queries_total", Help: "Database statements by operation and outcome."},
		[]string{"op", "outcome"},
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lightbnb", Name: "db_query_duration_seconds",
			Help:    "Database statement duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	DBRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lightbnb", Name: "db_rows_total", Help: "Rows returned or affected."},
		[]string{"op"},
	)
	SeedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lightbnb", Name: "seed_records_total", Help: "Fixture records processed."},
		[]string{"kind", "event"}, // event: added|existing|failed
	)
)

// Serve exposes /metrics on addr in the background. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(DBQueries, DBLatency, DBRows, SeedEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveQuery(op string, rows int, dur time.Duration, err error) {
	DBQueries.WithLabelValues(op, Outcome(err)).Inc()
	DBLatency.WithLabelValues(op).Observe(dur.Seconds())
	if rows > 0 {
		DBRows.WithLabelValues(op).Add(float64(rows))
	}
}

func ObserveSeed(kind, event string) {
	SeedEvents.WithLabelValues(kind, event).Inc()
}

// Outcome collapses an error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, domain.ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}
