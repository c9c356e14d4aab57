package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveIdeaOperation("create", "ok")
	metrics.ObserveLogin("locked")
	metrics.ObserveStore("load", 3*time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.ObserveCacheWrite(time.Millisecond)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `idea_operations_total{operation="create",outcome="ok"} 1`)
	assert.Contains(t, body, `login_attempts_total{outcome="locked"} 1`)
	assert.Contains(t, body, "record_store_duration_seconds")
	assert.Contains(t, body, "cache_latency_seconds")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var metrics *MetricsService
	assert.NotPanics(t, func() {
		metrics.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		metrics.ObserveLogin("ok")
		metrics.RecordCacheOperation(false, time.Millisecond)
	})
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
