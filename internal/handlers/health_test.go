package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recordream/internal/handlers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		db         handlers.Pinger
		wantStatus int
		wantHealth string
	}{
		{
			name:       "healthy",
			method:     http.MethodGet,
			db:         pingFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "database down",
			method:     http.MethodGet,
			db:         pingFunc(func(context.Context) error { return errors.New("locked") }),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "no database",
			method:     http.MethodGet,
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "wrong method",
			method:     http.MethodPost,
			db:         pingFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.db)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantHealth == "" {
				return
			}
			var resp handlers.HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("health status = %q, want %q", resp.Status, tt.wantHealth)
			}
			if tt.wantHealth == "unhealthy" && len(resp.Issues) == 0 {
				t.Error("unhealthy response should list issues")
			}
		})
	}
}
