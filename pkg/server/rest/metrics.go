package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"lintang/trafficsim/pkg/server/rest/service"
)

type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	routeQueries *prometheus.CounterVec
	roadTraffic  *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trafficsim",
			Name:      "http_requests_total",
			Help:      "number of http requests by path, method and status code.",
		}, []string{"path", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trafficsim",
			Name:      "http_request_duration_seconds",
			Help:      "duration of http requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		routeQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trafficsim",
			Name:      "route_queries_total",
			Help:      "number of path queries by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		roadTraffic: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "trafficsim",
			Name:      "road_traffic",
			Help:      "cars currently counted on a road.",
		}, []string{"road"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.routeQueries, m.roadTraffic)
	return m
}

// observeRoute. strategy must be one of the known strategies or "car", it is a label value.
func (m *Metrics) observeRoute(strategy string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.routeQueries.WithLabelValues(strategy, outcome).Inc()
}

// observeRoads takes views, the live roads may only be read under the service lock.
func (m *Metrics) observeRoads(roads ...service.RoadView) {
	for _, road := range roads {
		m.roadTraffic.WithLabelValues(strconv.Itoa(int(road.ID))).Set(float64(road.Traffic))
	}
}

// PromeHttpMiddleware counts requests by their chi route pattern, not the raw path.
func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequests.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		}
		return http.HandlerFunc(fn)
	}
}
