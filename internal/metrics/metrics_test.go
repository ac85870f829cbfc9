package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheLookup("league", 1, 2)
		m.FetchFailures("league", 1)
		m.PersistFailure("tft")
		m.UpstreamResponse(429)
		m.Snapshot("tft", "recorded")
		m.HTTPRequest("/interactions", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New()
	m.CacheLookup("league", 3, 2)
	m.CacheLookup("league", 1, 0)
	m.FetchFailures("league", 1)
	m.FetchFailures("league", 0)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("league")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("league")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures.WithLabelValues("league")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.UpstreamResponse(404)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `monke_riot_responses_total{status="404"} 1`)
}
