package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"lintang/trafficsim/pkg/config"
	"lintang/trafficsim/pkg/roadmap"
	"lintang/trafficsim/pkg/server/rest/service"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Metrics) {
	t.Helper()
	network := config.Network{
		Name: "test",
		Intersections: []config.IntersectionSpec{
			{Label: "A", Position: []float64{-7.55, 110.80}},
			{Label: "B", Position: []float64{-7.56, 110.81}},
			{Label: "C", Position: []float64{-7.57, 110.82}},
			{Label: "D"},
		},
		Roads: []config.RoadSpec{
			{From: "A", To: "B", SpeedLimit: 50, Length: 12},
			{From: "B", To: "C", SpeedLimit: 60, Length: 13},
		},
		Cars: []config.CarSpec{
			{Kind: "greedy", Start: "A", End: "C", Strategy: "cheapest"},
		},
	}
	m, err := roadmap.FromConfig(network, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	metrics := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(metrics))
	SimulationRouter(r, service.NewSimulationService(m), metrics)
	return r, metrics
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetNetwork(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/network", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NetworkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Intersections, 4)
	assert.Len(t, resp.Roads, 2)
	assert.Equal(t, 2, resp.Components)
	assert.Equal(t, "A", resp.Roads[0].From)
	assert.Equal(t, 50.0, resp.Roads[0].CurrentSpeed)
	assert.Nil(t, resp.Intersections[3].Position)
	assert.Equal(t, "greedy", resp.Cars[0].Kind)
}

func TestGetRoute(t *testing.T) {
	r, metrics := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/routes?from=A&to=C&strategy=fewest-intersections", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "B", "C"}, resp.Path)
	assert.Equal(t, 2.0, resp.Weight)
	assert.NotEmpty(t, resp.Polyline)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.routeQueries.WithLabelValues("fewest-intersections", "ok")))
}

func TestGetRouteErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"missing from", "/api/routes?to=C", http.StatusBadRequest},
		{"unknown strategy", "/api/routes?from=A&to=C&strategy=scenic", http.StatusBadRequest},
		{"unknown intersection", "/api/routes?from=A&to=Z", http.StatusNotFound},
		{"no path", "/api/routes?from=A&to=D", http.StatusNotFound},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.ErrorText)
		})
	}
}

func TestRouteCarAndRelease(t *testing.T) {
	r, metrics := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/cars/0/route", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var route RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))
	assert.Equal(t, []string{"A", "B", "C"}, route.Path)
	assert.Equal(t, 1, route.Roads[0].Traffic)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.roadTraffic.WithLabelValues("0")))

	rec = do(t, r, http.MethodPost, "/api/roads/0/release", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var road RoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &road))
	assert.Equal(t, 0, road.Traffic)

	rec = do(t, r, http.MethodPost, "/api/roads/0/release", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/api/cars/5/route", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/cars/x/route", "").Code)
}

func TestWalkCar(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/cars/0/walk", `{"max_hops": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "B"}, resp.Path)

	rec = do(t, r, http.MethodPost, "/api/cars/0/walk", `{"max_hops": -3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp.ErrValidation)
}

func TestSnap(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/snap?lat=-7.569&lon=110.821", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SnapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "C", resp.Label)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/snap?lat=abc&lon=1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/snap?lat=95&lon=1", "").Code)
}

func TestPromeHttpMiddlewareUsesRoutePattern(t *testing.T) {
	r, metrics := newTestRouter(t)

	do(t, r, http.MethodPost, "/api/cars/0/route", "")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.httpRequests.WithLabelValues("/api/cars/{id}/route", http.MethodPost, "200")))
}

func TestConcurrentRouteAndNetworkRequests(t *testing.T) {
	r, metrics := newTestRouter(t)
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/cars/0/route", "").Code)
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/network", "").Code)
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/routes?from=A&to=C&strategy=cheapest", "").Code)
		}()
	}
	wg.Wait()

	rec := do(t, r, http.MethodGet, "/api/network", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp NetworkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, road := range resp.Roads {
		assert.Equal(t, n, road.Traffic)
	}
	assert.Equal(t, []string{"A", "B", "C"}, resp.Cars[0].Path)
	assert.Equal(t, float64(n), testutil.ToFloat64(metrics.routeQueries.WithLabelValues("car", "ok")))
}

func TestUnknownStrategiesDoNotCreateMetricSeries(t *testing.T) {
	r, metrics := newTestRouter(t)

	for i := 0; i < 20; i++ {
		rec := do(t, r, http.MethodGet, fmt.Sprintf("/api/routes?from=A&to=C&strategy=junk%d", i), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.routeQueries))

	do(t, r, http.MethodGet, "/api/routes?from=A&to=C&strategy=fastest", "")
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.routeQueries))
}
