package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/platform/middleware"
	"gatekeeper/pkg/requestcontext"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func captureContext(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (ip, ua, requestID string) {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
		requestID = requestcontext.RequestID(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return ip, ua, requestID
}

func TestRequestID(t *testing.T) {
	t.Run("adopts inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "req-42")
		_, _, id := captureContext(t, middleware.RequestID, req)
		assert.Equal(t, "req-42", id)
	})

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, _, id := captureContext(t, middleware.RequestID, req)
		assert.NotEmpty(t, id)
	})
}

func TestClientMetadata(t *testing.T) {
	t.Run("first forwarded hop wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		ip, _, _ := captureContext(t, middleware.ClientMetadata, req)
		assert.Equal(t, "203.0.113.9", ip)
	})

	t.Run("falls back to remote addr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:54321"
		ip, _, _ := captureContext(t, middleware.ClientMetadata, req)
		assert.Equal(t, "198.51.100.7", ip)
	})

	t.Run("condenses browser user agents", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", chromeUA)
		_, ua, _ := captureContext(t, middleware.ClientMetadata, req)
		require.NotEmpty(t, ua)
		assert.Contains(t, ua, "Chrome/")
		assert.Contains(t, ua, "Linux")
	})

	t.Run("keeps non-browser agents verbatim", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "door-fw/2.4")
		_, ua, _ := captureContext(t, middleware.ClientMetadata, req)
		assert.Equal(t, "door-fw/2.4", ua)
	})
}
