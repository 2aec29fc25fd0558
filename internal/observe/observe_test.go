package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"memory-companion-go/internal/logger"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAnswer(ctx, true)
	m.RecordAnswer(ctx, true)
	m.RecordAnswer(ctx, false)
	m.RecordHealthIntent(ctx, "pain")
	m.RecordSession(ctx, "ok")

	rm := collect(t, reader)

	graded := findMetric(rm, "companion.answers.graded")
	require.NotNil(t, graded)
	sum, ok := graded.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byMatched := map[bool]int64{}
	for _, dp := range sum.DataPoints {
		v, found := dp.Attributes.Value(attribute.Key("matched"))
		require.True(t, found)
		byMatched[v.AsBool()] = dp.Value
	}
	require.Equal(t, map[bool]int64{true: 2, false: 1}, byMatched)

	require.NotNil(t, findMetric(rm, "companion.health_intents"))
	require.NotNil(t, findMetric(rm, "companion.sessions.processed"))
}

func TestAnalysisHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.AnalysisDuration.Record(context.Background(), 0.02)

	hist := findMetric(collect(t, reader), "companion.analysis.duration")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	require.Equal(t, uint64(1), data.DataPoints[0].Count)
}

func TestMiddleware(t *testing.T) {
	m, reader := newTestMetrics(t)
	h := Middleware(m, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	hist := findMetric(collect(t, reader), "companion.http.request.duration")
	require.NotNil(t, hist)
	data := hist.Data.(metricdata.Histogram[float64])
	require.Len(t, data.DataPoints, 1)
	status, ok := data.DataPoints[0].Attributes.Value(attribute.Key("status"))
	require.True(t, ok)
	require.Equal(t, int64(http.StatusTeapot), status.AsInt64())
}

func TestMiddleware_RouteIsMuxPattern(t *testing.T) {
	m, reader := newTestMetrics(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {})
	h := Middleware(m, logger.Discard())(mux)

	for _, path := range []string{"/items/1", "/items/2", "/items/3", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	hist := findMetric(collect(t, reader), "companion.http.request.duration")
	require.NotNil(t, hist)
	data := hist.Data.(metricdata.Histogram[float64])
	routes := map[string]uint64{}
	for _, dp := range data.DataPoints {
		route, ok := dp.Attributes.Value(attribute.Key("route"))
		require.True(t, ok)
		_, hasPath := dp.Attributes.Value(attribute.Key("path"))
		require.False(t, hasPath)
		routes[route.AsString()] += dp.Count
	}
	require.Equal(t, map[string]uint64{"GET /items/{id}": 3, unmatchedRoute: 1}, routes)
}
