// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	dbRetries    *prometheus.CounterVec
	loginResults *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_planner_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "garden_planner_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		dbRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_planner_db_retries_total",
			Help: "Store operations retried after a transient failure.",
		}, []string{"op"}),
		loginResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_planner_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.requests, c.latency, c.dbRetries, c.loginResults)
	return c
}

func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordRetry has the signature of db.RetryPolicy.OnRetry.
func (c *Collector) RecordRetry(op string, _ int, _ error) {
	c.dbRetries.WithLabelValues(op).Inc()
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.loginResults.WithLabelValues(result).Inc()
}

// Middleware records every request under its chi route pattern so that ids in
// the path do not explode label cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RecordRequest(route, r.Method, status, time.Since(start))
	})
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
