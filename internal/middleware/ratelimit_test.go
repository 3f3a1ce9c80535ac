package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	tb := NewTokenBucket(2, 0)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimitMiddlewarePerClient(t *testing.T) {
	h := RateLimitMiddleware(1, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/justification", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	// port lain, client sama
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}
