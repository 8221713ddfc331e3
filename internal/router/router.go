// Package router assembles the HTTP surface of the service.
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"guestgate/internal/config"
	"guestgate/internal/handlers"
	"guestgate/internal/middleware"
	"guestgate/internal/services"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Config   *config.Config
	Licenses services.LicenseServicer
	Audit    services.AuditServicer
	Guests   services.GuestServicer
}

// New builds the Gin engine. Middleware runs in this order: CORS, audit,
// panic recovery, request timeout, request logging, error rendering and the
// license gate. Preflight requests therefore never reach the audit table,
// while every other request is audited whatever its outcome.
func New(d Deps) (*gin.Engine, error) {
	router := gin.New()
	router.RedirectTrailingSlash = false
	if err := router.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(middleware.CORS(d.Config.AllowedOrigins))
	router.Use(middleware.AuditRecorder(d.Audit, d.Config.MaxBodyBytes))
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestTimeout(d.Config.DBQueueTimeout))
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.LicenseGate(d.Licenses))

	// Health check endpoint
	router.GET("/health", handlers.Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guestHandler := handlers.NewGuestHandler(d.Guests)
	guests := router.Group("/api/guests")
	guests.GET("/:"+guestHandler.Param(), guestHandler.GetGuest)
	guests.PUT("/:"+guestHandler.Param(), guestHandler.UpdateGuest)

	router.NoRoute(middleware.NotFound())

	return router, nil
}
