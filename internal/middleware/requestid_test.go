package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/middleware"
)

func TestRequestID_IgnoresClientID(t *testing.T) {
	var seen string

	r := gin.New()
	r.Use(middleware.RequestID(logrus.New()))
	r.GET("/test", func(c *gin.Context) {
		seen = middleware.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-chosen")
	r.ServeHTTP(w, req)

	if seen == "client-chosen" {
		t.Fatal("client request ID must not become the canonical ID")
	}

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request ID %q is not a UUID: %v", seen, err)
	}

	if got := w.Header().Get(middleware.RequestIDHeader); got != seen {
		t.Errorf("header = %q, want %q", got, seen)
	}
}
