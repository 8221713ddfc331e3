package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"guestgate/internal/config"
	"guestgate/internal/database"
	"guestgate/internal/logger"
	"guestgate/internal/router"
	"guestgate/internal/services"
	"guestgate/internal/validator"

	_ "guestgate/internal/docs" // Import swagger docs
)

// @title           Guestgate API
// @version         1.0
// @description     License-gated, audited REST access to guest records of the reservation database.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Errorf("Fatal error: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if appConfig.DBAutoMigrate {
		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	// Initialize services
	db := dbManager.DB()
	tasks := services.NewBackgroundTasks(appConfig.BackgroundTTL)
	deps := router.Deps{
		Config:   appConfig,
		Licenses: services.NewLicenseService(db, tasks),
		Audit:    services.NewAuditService(db, tasks),
		Guests:   services.NewGuestService(db, appConfig.Contract),
	}

	engine, err := router.New(deps)
	if err != nil {
		_ = dbManager.Close()
		return err
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting guestgate server on port %s (contract %s)", appConfig.Port, appConfig.Contract)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, tasks, dbManager, appConfig.ShutdownGrace)
	})

	return g.Wait()
}

// shutdown stops accepting connections, lets in-flight requests finish,
// drains background writes and closes the pool, all within grace.
func shutdown(srv *http.Server, tasks *services.BackgroundTasks, db *database.Manager, grace time.Duration) error {
	log := logger.Get()
	log.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("forced shutdown after %s: %w", grace, err)
	}
	if err := tasks.Wait(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("forced shutdown after %s: %w", grace, err)
	}
	if err := db.Close(); err != nil {
		return err
	}

	log.Info("Shutdown complete")
	return nil
}
