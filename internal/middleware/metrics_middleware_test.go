package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.DELETE("/queue/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(router, httptest.NewRequest(http.MethodDelete, "/queue/abc", nil))
	serve(router, httptest.NewRequest(http.MethodDelete, "/queue/def", nil))

	counter, err := httpRequests.GetMetricWithLabelValues(http.MethodDelete, "/queue/:id", "204")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues returned error: %v", err)
	}
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected 2 requests on one series, got %v", got)
	}
}
