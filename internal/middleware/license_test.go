package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "guestgate/internal/errors"
	"guestgate/internal/models"
)

func setupLicenseRouter(svc *mockLicenseService, reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(), LicenseGate(svc))
	handler := func(c *gin.Context) {
		*reached = true
		name := ""
		if license, ok := GetLicense(c); ok {
			name = license.LicenseName
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "license": name})
	}
	r.GET("/health", handler)
	r.GET("/test", handler)
	return r
}

func TestLicenseGate(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		key         string
		err         error
		wantStatus  int
		wantMessage string
		wantReached bool
		wantUsage   int
	}{
		{
			name:        "valid_key",
			path:        "/test",
			key:         "good",
			wantStatus:  http.StatusOK,
			wantReached: true,
			wantUsage:   1,
		},
		{
			name:        "health_bypasses_gate",
			path:        "/health",
			err:         apperrors.ErrAPIKeyRequired,
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "missing_key",
			path:        "/test",
			err:         apperrors.ErrAPIKeyRequired,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "API key is required. Please provide x-api-key header.",
		},
		{
			name:        "expired",
			path:        "/test",
			key:         "old",
			err:         apperrors.ErrLicenseExpired,
			wantStatus:  http.StatusForbidden,
			wantMessage: "API key has expired. Please renew your license.",
		},
		{
			name:        "quota",
			path:        "/test",
			key:         "busy",
			err:         apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Daily request limit of 3 has been reached."),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Daily request limit of 3 has been reached.",
		},
		{
			name:        "storage_failure",
			path:        "/test",
			key:         "any",
			err:         apperrors.Wrap(apperrors.ErrLicenseCheckFail, context.DeadlineExceeded),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Error validating API key.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockLicenseService{}
			if tt.err != nil {
				svc.validateKeyFn = func(_ context.Context, _, _ string) (*models.License, error) {
					return nil, tt.err
				}
			}
			reached := false
			r := setupLicenseRouter(svc, &reached)

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := serve(r, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tt.wantReached)
			}
			if len(svc.usage) != tt.wantUsage {
				t.Errorf("usage recorded %d times, want %d", len(svc.usage), tt.wantUsage)
			}
			if tt.wantMessage != "" {
				if msg := parseBody(t, rec)["message"]; msg != tt.wantMessage {
					t.Errorf("message = %v, want %q", msg, tt.wantMessage)
				}
			}
		})
	}
}

func TestLicenseGatePassesClientIP(t *testing.T) {
	var gotIP, gotKey string
	svc := &mockLicenseService{
		validateKeyFn: func(_ context.Context, key, clientIP string) (*models.License, error) {
			gotKey, gotIP = key, clientIP
			return &models.License{LicenseName: "Front Desk"}, nil
		},
	}
	reached := false
	r := setupLicenseRouter(svc, &reached)

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("x-api-key", "abc")
	req.RemoteAddr = "10.1.2.3:5555"
	rec := serve(r, req)

	if gotKey != "abc" {
		t.Errorf("key = %q, want abc", gotKey)
	}
	if gotIP != "10.1.2.3" {
		t.Errorf("client ip = %q, want 10.1.2.3", gotIP)
	}
	if name := parseBody(t, rec)["license"]; name != "Front Desk" {
		t.Errorf("expected license on context, got %v", name)
	}
}
