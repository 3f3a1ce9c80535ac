package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

func TestLoggingLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.New(zap.New(core))

	status := http.StatusOK
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte("hello"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	status = http.StatusInternalServerError
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "http", entries[0].ContextMap()["module"])
	first := entries[0].ContextMap()["details"].(map[string]interface{})
	assert.Equal(t, int64(5), first["bytes"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	second := entries[1].ContextMap()["details"].(map[string]interface{})
	assert.Equal(t, "/api/v1/sessions", second["path"])
	assert.Equal(t, http.StatusInternalServerError, second["status"])
}

func TestMetricsCounters(t *testing.T) {
	before := GetMetrics()
	SetSessionGauge(func() int { return 3 })

	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	IncrementFallbacks()

	after := GetMetrics()
	assert.Equal(t, before["requests_total"].(uint64)+1, after["requests_total"])
	assert.Equal(t, before["requests_failed"].(uint64)+1, after["requests_failed"])
	assert.Equal(t, before["fallbacks_total"].(uint64)+1, after["fallbacks_total"])
	assert.Equal(t, 3, after["sessions_live"])
}
