package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Luckywi/admin-balzac/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func TestPINGate(t *testing.T) {
	tests := []struct {
		name       string
		pin        string
		header     string
		wantStatus int
	}{
		{
			name:       "correct pin passes",
			pin:        "4821",
			header:     "4821",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong pin rejected",
			pin:        "4821",
			header:     "0000",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header rejected",
			pin:        "4821",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rdvs", nil)
			if tt.header != "" {
				req.Header.Set(PINHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			PINGate(tt.pin, testLog())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; called != wantCalled {
				t.Errorf("next handler called = %v, want %v", called, wantCalled)
			}
		})
	}
}
