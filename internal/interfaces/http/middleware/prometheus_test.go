package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_CountsByRoute(t *testing.T) {
	m := NewPrometheusMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/payments/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", m.Handler())

	for _, id := range []string{"p1", "p2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+id, nil))
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/v1/payments/:id", "200"))
	assert.Equal(t, float64(2), got)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{endpoint="/api/v1/payments/:id",method="GET",status="200"} 2`)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds_bucket")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
