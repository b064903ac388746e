package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// DefaultTWSEURL is the TWSE endpoint publishing the daily top-20 by traded shares.
// Data for the current day is refreshed after 14:00 Taipei time.
const DefaultTWSEURL = "https://www.twse.com.tw/rwd/zh/afterTrading/MI_INDEX20?response=json"

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the exchange source and the warehouse destination.
//
// Example ENV equivalent:
//
//	SERVER_PORT=9000
//	LOG_LEVEL=info
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=top20pulse
//	POSTGRES_SSLMODE=disable
//	TWSE_URL=https://www.twse.com.tw/rwd/zh/afterTrading/MI_INDEX20?response=json
//	TWSE_TIMEOUT=30s
//	EXCHANGE_TIMEZONE=Asia/Taipei
//	WAREHOUSE_SCHEMA=public
//	WAREHOUSE_TABLE=daily_top20_stocks
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Log       LogConfig       // Logger settings
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Source    SourceConfig    // Exchange endpoint settings
	Warehouse WarehouseConfig // Destination table settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string // The TCP port the HTTP server will listen on (e.g., "9000")
	RateLimitPerMinute int    // Requests allowed per client IP per minute
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // debug|info|warn|error
	Pretty bool   // console writer instead of JSON
	Name   string // attached to every line as "log_name"
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// SourceConfig describes where and how the daily snapshot is fetched.
type SourceConfig struct {
	URL      string
	Timeout  time.Duration
	Timezone string // IANA zone of the exchange calendar
}

// WarehouseConfig names the append-only destination table.
type WarehouseConfig struct {
	Schema string
	Table  string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() in main and handed to constructors from there.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "9000")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("LOG_NAME", "fetch-top20-stock-data")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "top20pulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("TWSE_URL", DefaultTWSEURL)
	viper.SetDefault("TWSE_TIMEOUT", "30s")
	viper.SetDefault("EXCHANGE_TIMEZONE", "Asia/Taipei")

	viper.SetDefault("WAREHOUSE_SCHEMA", "public")
	viper.SetDefault("WAREHOUSE_TABLE", "daily_top20_stocks")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
			Name:   viper.GetString("LOG_NAME"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Source: SourceConfig{
			URL:      viper.GetString("TWSE_URL"),
			Timeout:  viper.GetDuration("TWSE_TIMEOUT"),
			Timezone: viper.GetString("EXCHANGE_TIMEZONE"),
		},
		Warehouse: WarehouseConfig{
			Schema: viper.GetString("WAREHOUSE_SCHEMA"),
			Table:  viper.GetString("WAREHOUSE_TABLE"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// DSN renders the PostgreSQL connection string used by database/sql.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// Location resolves the exchange time zone.
func (s SourceConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid EXCHANGE_TIMEZONE %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}

func missingKeys(c Config) []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if c.Source.URL == "" {
		missing = append(missing, "TWSE_URL")
	}
	if c.Source.Timezone == "" {
		missing = append(missing, "EXCHANGE_TIMEZONE")
	}
	if c.Warehouse.Table == "" {
		missing = append(missing, "WAREHOUSE_TABLE")
	}
	return missing
}
