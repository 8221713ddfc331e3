package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"guestgate/internal/config"
	"guestgate/internal/logger"
	"guestgate/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table the service reads or writes, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.License{},
		&models.AuditLog{},
		&models.Name{},
		&models.ReservationName{},
		&models.NameAddress{},
	}
}

// Manager owns the connection pool of the reservation database.
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens the pool described by config and verifies connectivity.
func NewManager(config *Config) (*Manager, error) {
	dialector, err := dialectorFor(config)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if config.LogSQL {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.PoolMax)
	sqlDB.SetMaxIdleConns(config.PoolMin)
	sqlDB.SetConnMaxIdleTime(config.IdleTimeout)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	m := &Manager{db: db, config: config}

	ctx, cancel := context.WithTimeout(context.Background(), config.QueueTimeout)
	defer cancel()
	if err := m.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Get().Infow("database pool initialized",
		"driver", config.Driver,
		"pool_min", config.PoolMin,
		"pool_max", config.PoolMax,
		"idle_timeout", config.IdleTimeout.String(),
		"queue_timeout", config.QueueTimeout.String(),
	)
	return m, nil
}

func dialectorFor(c *Config) (gorm.Dialector, error) {
	switch c.Driver {
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DSN: c.DSN()}), nil
	case config.DriverSQLite:
		return sqlite.Open(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Ping checks that a connection can be acquired before ctx expires.
func (m *Manager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	return nil
}

// RunMigrations applies pending SQL migrations for the license and audit
// tables. SQLite development databases are migrated from the models instead.
func (m *Manager) RunMigrations() error {
	if m.config.Driver == config.DriverSQLite {
		return m.AutoMigrate()
	}

	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New(m.config.MigrationsURL, m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// AutoMigrate creates every table from the models, including the
// reservation tables that production databases already own.
func (m *Manager) AutoMigrate() error {
	if err := m.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logger.Get().Info("Database schema synchronized from models")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// QueueTimeout is the longest a request may wait on the pool.
func (m *Manager) QueueTimeout() time.Duration {
	return m.config.QueueTimeout
}

// Close releases every pooled connection. Calls after the first are no-ops.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database pool: %w", err)
	}
	logger.Get().Info("Database pool closed")
	return nil
}
