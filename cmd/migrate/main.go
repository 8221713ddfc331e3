package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"guestgate/internal/config"
	"guestgate/internal/database"
	"guestgate/internal/logger"
	"guestgate/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|version|status> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig := database.NewConfig(cfg)

	command := os.Args[1]
	if command == "status" {
		return status(dbConfig)
	}
	if dbConfig.Driver == config.DriverSQLite {
		return fmt.Errorf("%s is only supported for postgres; sqlite databases are migrated from the models", command)
	}

	m, err := migrate.New(dbConfig.MigrationsURL, dbConfig.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version, or status)", command)
	}

	return nil
}

// status prints the licenses on file and the most recent audited requests.
func status(dbConfig *database.Config) error {
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}
	defer func() { _ = dbManager.Close() }()

	log := logger.Get()
	db := dbManager.DB()

	var licenses []models.License
	if err := db.Order("license_id").Find(&licenses).Error; err != nil {
		return fmt.Errorf("failed to list licenses: %w", err)
	}
	log.Infof("Licenses: %d", len(licenses))
	for _, l := range licenses {
		log.Infow("license",
			"key", l.LicenseKey,
			"name", l.LicenseName,
			"active", l.IsActive,
			"total_requests", l.TotalRequests,
		)
	}

	var recent []models.AuditLog
	if err := db.Order("request_timestamp desc").Limit(5).Find(&recent).Error; err != nil {
		return fmt.Errorf("failed to list audit logs: %w", err)
	}
	log.Infof("Recent requests: %d", len(recent))
	for _, r := range recent {
		log.Infow("request",
			"method", r.RequestMethod,
			"path", r.RequestPath,
			"status", r.ResponseStatus,
			"duration_ms", r.DurationMS,
			"at", r.RequestTimestamp,
		)
	}
	return nil
}
