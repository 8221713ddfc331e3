package middleware

import (
	"github.com/gin-gonic/gin"

	"guestgate/internal/models"
	"guestgate/internal/services"
)

const (
	// APIKeyHeader carries the license key of the caller.
	APIKeyHeader = "X-API-Key"

	licenseContextKey = "license"
	healthPath        = "/health"
)

// LicenseGate returns a Gin middleware that admits a request only when its
// X-API-Key names a usable license. The health endpoint is never gated.
// Accepted requests have their license stored on the context and their usage
// recorded in the background.
func LicenseGate(svc services.LicenseServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		license, err := svc.ValidateKey(c.Request.Context(), key, c.ClientIP())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(licenseContextKey, license)
		svc.RecordUsage(key)
		c.Next()
	}
}

// GetLicense returns the license admitted by LicenseGate, if any.
func GetLicense(c *gin.Context) (*models.License, bool) {
	v, ok := c.Get(licenseContextKey)
	if !ok {
		return nil, false
	}
	license, ok := v.(*models.License)
	return license, ok
}
