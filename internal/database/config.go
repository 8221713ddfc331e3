package database

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"guestgate/internal/config"
)

// Config holds database connection and pool configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string

	PoolMin         int
	PoolMax         int
	IdleTimeout     time.Duration
	QueueTimeout    time.Duration
	ConnMaxLifetime time.Duration

	MigrationsURL string
	LogSQL        bool
}

// NewConfig derives the database configuration from the application configuration
func NewConfig(app *config.Config) *Config {
	return &Config{
		Driver:          app.DBDriver,
		Host:            app.DBHost,
		Port:            app.DBPort,
		User:            app.DBUser,
		Password:        app.DBPassword,
		DBName:          app.DBName,
		SSLMode:         app.DBSSLMode,
		SQLitePath:      app.DBSQLitePath,
		PoolMin:         app.DBPoolMin,
		PoolMax:         app.DBPoolMax,
		IdleTimeout:     app.DBPoolIdleTimeout,
		QueueTimeout:    app.DBQueueTimeout,
		ConnMaxLifetime: app.DBConnMaxLifetime,
		MigrationsURL:   app.DBMigrations,
		LogSQL:          app.DBLogSQL,
	}
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the URL form golang-migrate expects, with credentials escaped.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}
