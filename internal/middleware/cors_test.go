package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupCORSRouter(reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173", "http://10.0.10.31/"}))
	r.GET("/test", func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantReached bool
	}{
		{name: "allowed_origin", method: http.MethodGet, origin: "http://localhost:5173", wantStatus: http.StatusOK, wantOrigin: "http://localhost:5173", wantReached: true},
		{name: "trailing_slash_configured", method: http.MethodGet, origin: "http://10.0.10.31", wantStatus: http.StatusOK, wantOrigin: "http://10.0.10.31", wantReached: true},
		{name: "no_origin", method: http.MethodGet, wantStatus: http.StatusOK, wantReached: true},
		{name: "disallowed_origin", method: http.MethodGet, origin: "http://evil.example", wantStatus: http.StatusOK, wantReached: true},
		{name: "preflight_allowed", method: http.MethodOptions, origin: "http://localhost:5173", wantStatus: http.StatusOK, wantOrigin: "http://localhost:5173"},
		{name: "preflight_disallowed", method: http.MethodOptions, origin: "http://evil.example", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := setupCORSRouter(&reached)
			req := httptest.NewRequest(tt.method, "/test", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := serve(r, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("expected credentials to be allowed")
			}
			if reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tt.wantReached)
			}
		})
	}
}
