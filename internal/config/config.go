package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GuestContract selects which shape of the guest API is served.
type GuestContract string

const (
	// ContractConfirmation resolves guests by reservation confirmation number
	// and accepts multi-field updates.
	ContractConfirmation GuestContract = "confirmation"
	// ContractNameID resolves guests by name identifier and accepts a single
	// display-name update.
	ContractNameID GuestContract = "name_id"
)

// Database drivers supported by the database manager.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	Env string

	// Server
	Port           string
	Contract       GuestContract
	AllowedOrigins []string
	TrustedProxies []string
	ShutdownGrace  time.Duration
	BackgroundTTL  time.Duration
	MaxBodyBytes   int64

	// Database
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	DBSQLitePath string

	// Pool
	DBPoolMin         int
	DBPoolMax         int
	DBPoolIdleTimeout time.Duration
	DBQueueTimeout    time.Duration
	DBConnMaxLifetime time.Duration

	DBMigrations  string
	DBAutoMigrate bool
	DBLogSQL      bool
}

var appConfig *Config

var defaultOrigins = "http://10.0.10.31,http://localhost:3000,http://localhost:5173"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env: getEnv("ENV", "development"),

		// Server
		Port:           getEnv("PORT", "3000"),
		Contract:       GuestContract(strings.ToLower(getEnv("GUEST_CONTRACT", string(ContractConfirmation)))),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", defaultOrigins),
		TrustedProxies: getList("TRUSTED_PROXIES", ""),
		ShutdownGrace:  getDuration("SHUTDOWN_GRACE", 30*time.Second),
		BackgroundTTL:  getDuration("BACKGROUND_TASK_TIMEOUT", 10*time.Second),
		MaxBodyBytes:   int64(getInt("MAX_BODY_BYTES", 1<<20)),

		// Database
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "opera"),
		DBPassword:   getEnv("DB_PASSWORD", "opera"),
		DBName:       getEnv("DB_NAME", "opera"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBSQLitePath: getEnv("DB_SQLITE_PATH", "guestgate.db"),

		// Pool
		DBPoolMin:         getInt("DB_POOL_MIN", 2),
		DBPoolMax:         getInt("DB_POOL_MAX", 10),
		DBPoolIdleTimeout: getDuration("DB_POOL_IDLE_TIMEOUT", 60*time.Second),
		DBQueueTimeout:    getDuration("DB_QUEUE_TIMEOUT", 60*time.Second),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		DBMigrations:  getEnv("DB_MIGRATIONS", "file://migrations"),
		DBAutoMigrate: getBool("DB_AUTO_MIGRATE", false),
		DBLogSQL:      getBool("DB_LOG_SQL", false),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func (c *Config) validate() error {
	switch c.Contract {
	case ContractConfirmation, ContractNameID:
	default:
		return fmt.Errorf("invalid GUEST_CONTRACT %q (use %q or %q)", c.Contract, ContractConfirmation, ContractNameID)
	}

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (use %q or %q)", c.DBDriver, DriverPostgres, DriverSQLite)
	}

	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1, got %d", c.MaxBodyBytes)
	}

	if c.DBPoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1, got %d", c.DBPoolMax)
	}
	if c.DBPoolMin > c.DBPoolMax {
		log.Printf("Warning: DB_POOL_MIN %d exceeds DB_POOL_MAX %d, clamping\n", c.DBPoolMin, c.DBPoolMax)
		c.DBPoolMin = c.DBPoolMax
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// getList splits a comma separated variable, dropping empty entries.
func getList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
