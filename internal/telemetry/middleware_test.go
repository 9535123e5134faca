package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newManualReaderProvider builds a meter provider whose metrics can be
// collected on demand through the returned reader.
func newManualReaderProvider(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewHTTPMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewHTTPMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates metrics with SDK provider", func(t *testing.T) {
		t.Parallel()

		_, mp := newManualReaderProvider(t)

		metrics, err := NewHTTPMetrics(mp)
		require.NoError(t, err)
		assert.NotNil(t, metrics)
		assert.NotNil(t, metrics.requestDuration)
		assert.NotNil(t, metrics.requestsTotal)
		assert.NotNil(t, metrics.activeRequests)
	})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("passes through when metrics is nil", func(t *testing.T) {
		t.Parallel()

		var metrics *HTTPMetrics
		wrapped := metrics.Middleware(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("records metrics for successful request", func(t *testing.T) {
		t.Parallel()

		reader, mp := newManualReaderProvider(t)

		metrics, err := NewHTTPMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/tasks/{name}", okHandler().ServeHTTP)

		req := httptest.NewRequest(http.MethodGet, "/tasks/workstations", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var rm metricdata.ResourceMetrics
		err = reader.Collect(context.Background(), &rm)
		require.NoError(t, err)
		require.NotEmpty(t, rm.ScopeMetrics, "expected scope metrics to be recorded")

		var foundScope bool
		for _, scope := range rm.ScopeMetrics {
			if scope.Scope.Name == HTTPMetricsMeterName {
				foundScope = true
				assert.NotEmpty(t, scope.Metrics, "expected metrics to be recorded")
			}
		}
		assert.True(t, foundScope, "expected to find HTTP metrics scope")
	})

	t.Run("records metrics for error response", func(t *testing.T) {
		t.Parallel()

		reader, mp := newManualReaderProvider(t)

		metrics, err := NewHTTPMetrics(mp)
		require.NoError(t, err)

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/error", handler)

		req := httptest.NewRequest(http.MethodGet, "/error", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var rm metricdata.ResourceMetrics
		err = reader.Collect(context.Background(), &rm)
		require.NoError(t, err)
		require.NotEmpty(t, rm.ScopeMetrics)
	})

	t.Run("records route pattern rather than the request path", func(t *testing.T) {
		t.Parallel()

		reader, mp := newManualReaderProvider(t)

		metrics, err := NewHTTPMetrics(mp)
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/groups/{groupID}/updates/{updateID}", okHandler().ServeHTTP)

		req := httptest.NewRequest(http.MethodGet, "/groups/g-42/updates/u-123", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var rm metricdata.ResourceMetrics
		err = reader.Collect(context.Background(), &rm)
		require.NoError(t, err)
		require.NotEmpty(t, rm.ScopeMetrics)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("returns no-op middleware when provider is nil", func(t *testing.T) {
		t.Parallel()

		mw, err := MetricsMiddleware(nil)
		require.NoError(t, err)
		require.NotNil(t, mw)

		wrapped := mw(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("returns working middleware with noop provider", func(t *testing.T) {
		t.Parallel()

		mp := noop.NewMeterProvider()
		mw, err := MetricsMiddleware(mp)
		require.NoError(t, err)
		require.NotNil(t, mw)

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		wrapped := mw(handler)
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("creates working middleware with SDK provider", func(t *testing.T) {
		t.Parallel()

		_, mp := newManualReaderProvider(t)

		mw, err := MetricsMiddleware(mp)
		require.NoError(t, err)
		require.NotNil(t, mw)

		wrapped := mw(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestGetRoutePattern(t *testing.T) {
	t.Parallel()

	t.Run("returns unknown_route when no chi context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/some/path", nil)
		pattern := getRoutePattern(req)

		assert.Equal(t, "unknown_route", pattern)
	})

	t.Run("returns route pattern from chi context", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			pattern := getRoutePattern(r)
			assert.Equal(t, "/tasks/{name}", pattern)
		})

		r := chi.NewRouter()
		r.Get("/tasks/{name}", handler)

		req := httptest.NewRequest(http.MethodGet, "/tasks/workstations", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
	})
}
