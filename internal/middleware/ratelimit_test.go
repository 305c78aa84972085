package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/typegraph/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newLimitedRouter returns a router with a single rate-limited GET /test route.
func newLimitedRouter(t *testing.T, ratePerSec float64, burst int) *gin.Engine {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.Use(middleware.NewRateLimiter(ctx, ratePerSec, burst).Handler())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	return r
}

func hit(r http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiter_Burst(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		burst int
		hits  int
		want  []int
	}{
		{name: "within burst", rate: 10, burst: 5, hits: 1, want: []int{200}},
		{name: "exceeds burst", rate: 1, burst: 2, hits: 3, want: []int{200, 200, 429}},
		// A very high rate refills before the next request arrives.
		{name: "refills", rate: 1_000_000, burst: 2, hits: 3, want: []int{200, 200, 200}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newLimitedRouter(t, tc.rate, tc.burst)

			for i := range tc.hits {
				if w := hit(r, "1.2.3.4:1234"); w.Code != tc.want[i] {
					t.Fatalf("request %d: expected %d, got %d", i, tc.want[i], w.Code)
				}
			}
		})
	}
}

func TestRateLimiter_IndependentBuckets(t *testing.T) {
	r := newLimitedRouter(t, 1, 1)

	hit(r, "1.1.1.1:1000")

	if w := hit(r, "1.1.1.1:2000"); w.Code != http.StatusTooManyRequests {
		t.Errorf("same IP on another port should share a bucket, got %d", w.Code)
	}

	if w := hit(r, "2.2.2.2:1000"); w.Code != http.StatusOK {
		t.Errorf("different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimiter_RejectedBody(t *testing.T) {
	r := newLimitedRouter(t, 0.5, 1)

	hit(r, "6.6.6.6:1000")
	w := hit(r, "6.6.6.6:1000")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	// At 0.5 req/s the next token is two seconds away.
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}

	if body := w.Body.String(); !strings.Contains(body, `"code":"rate_limited"`) {
		t.Errorf("unexpected body: %s", body)
	}
}
