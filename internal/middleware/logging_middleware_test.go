package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/metrics"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: buf})

	router := gin.New()
	router.Use(LoggingMiddleware(), MetricsMiddleware())
	router.GET("/verify-token/:token", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("handler reached")
		c.Status(http.StatusOK)
	})
	return router
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	router := setupLoggedRouter(&buf)

	t.Run("Generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/verify-token/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})

	t.Run("Echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/verify-token/abc", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("Oversized value replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/verify-token/abc", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestLoggingMiddleware_LogsRouteNotPath(t *testing.T) {
	var buf bytes.Buffer
	router := setupLoggedRouter(&buf)

	secret := "0123456789abcdef0123456789abcdef"
	req := httptest.NewRequest(http.MethodGet, "/verify-token/"+secret, nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, "handler reached")
	assert.Contains(t, out, `"route":"/verify-token/:token"`)
	assert.NotContains(t, out, secret)
}

func TestMetricsMiddleware_CountsByRoute(t *testing.T) {
	var buf bytes.Buffer
	router := setupLoggedRouter(&buf)

	counter := metrics.RequestCounter.WithLabelValues("200", http.MethodGet, "/verify-token/:token")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/verify-token/one", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/verify-token/two", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := metrics.RequestCounter.WithLabelValues("404", http.MethodGet, "unmatched")
	before = testutil.ToFloat64(unmatched)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}
