package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupLoggingRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/signals", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequestLogging(t *testing.T) {
	t.Run("sets_unique_request_id", func(t *testing.T) {
		r := setupLoggingRouter()

		var ids []string
		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/signals", nil))
			id := rec.Header().Get("X-Request-ID")
			if id == "" {
				t.Fatal("expected X-Request-ID header")
			}
			ids = append(ids, id)
		}
		if ids[0] == ids[1] {
			t.Errorf("expected distinct request IDs, both %q", ids[0])
		}
	})

	t.Run("health_probe_not_tagged", func(t *testing.T) {
		r := setupLoggingRouter()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if id := rec.Header().Get("X-Request-ID"); id != "" {
			t.Errorf("expected no request ID on health probe, got %q", id)
		}
	})
}
