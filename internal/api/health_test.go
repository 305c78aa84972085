package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/typegraph/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(&mockChecker{err: errors.New("down")}, nil, testLogger(), "test-v1")

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}

	if body["version"] != "test-v1" {
		t.Errorf("expected version 'test-v1', got %v", body["version"])
	}

	if body["storage"] != "disabled" {
		t.Errorf("expected storage 'disabled', got %v", body["storage"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		endpoint   error
		db         api.HealthChecker
		wantCode   int
		wantSPARQL string
		wantDB     string
	}{
		{name: "ready without db", wantCode: http.StatusOK, wantSPARQL: "ok", wantDB: "disabled"},
		{name: "ready with db", db: &mockChecker{}, wantCode: http.StatusOK, wantSPARQL: "ok", wantDB: "ok"},
		{name: "endpoint down", endpoint: errors.New("refused"), wantCode: http.StatusServiceUnavailable, wantSPARQL: "error", wantDB: "disabled"},
		{name: "db down", db: &mockChecker{err: errors.New("refused")}, wantCode: http.StatusServiceUnavailable, wantSPARQL: "ok", wantDB: "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := api.NewHealthHandler(&mockChecker{err: tc.endpoint}, tc.db, testLogger(), "test")

			r := gin.New()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if body.Checks["sparql"] != tc.wantSPARQL || body.Checks["database"] != tc.wantDB {
				t.Errorf("checks = %v", body.Checks)
			}
		})
	}
}
