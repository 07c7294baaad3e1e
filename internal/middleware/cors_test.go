package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/signals/decide", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("preflight_returns_204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/signals/decide", http.NoBody)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
		allowed := rec.Header().Get("Access-Control-Allow-Headers")
		for _, h := range []string{"Content-Type", "Authorization", "X-API-Key"} {
			if !strings.Contains(allowed, h) {
				t.Errorf("expected %s in allowed headers, got %q", h, allowed)
			}
		}
	})

	t.Run("normal_request_passes_through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signals/decide", http.NoBody)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
	})
}
