// Package config loads runtime settings from defaults, an optional .env file
// and the process environment, and bootstraps the logger and database.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings. Secrets (SecretKey, SMTPPassword, API keys)
// are opaque and never logged.
type Config struct {
	Port string

	DBDriver    string
	DatabaseDSN string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	SecretKey     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	SuperAdminID  uint
	BaseURL       string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	NewsAPIURL      string
	NewsAPIKey      string
	WeatherAPIURL   string
	WeatherAPIKey   string
	OutboundTimeout time.Duration

	Workers     int
	QueueSize   int
	JobAttempts int

	LogLevel   string
	RateLimit  int
	RateWindow time.Duration
}

// DefaultSecretKey signs sessions when SECRET_KEY is unset. It is only fit
// for local development.
const DefaultSecretKey = "change-this-secret-in-production"

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DBDriver = "postgres"
	c.DBHost = "localhost"
	c.DBPort = "5432"
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBName = "blog"
	c.SecretKey = DefaultSecretKey
	c.SessionTTL = 24 * time.Hour
	c.ResetTokenTTL = time.Hour
	c.SuperAdminID = 1
	c.BaseURL = "http://localhost:8080"
	c.SMTPPort = 587
	c.MailFrom = "no-reply@localhost"
	c.NewsAPIURL = "https://newsapi.org"
	c.WeatherAPIURL = "https://api.weatherapi.com"
	c.OutboundTimeout = 10 * time.Second
	c.Workers = 4
	c.QueueSize = 256
	c.JobAttempts = 3
	c.LogLevel = "info"
	c.RateLimit = 10
	c.RateWindow = time.Minute
}

// LoadConfig applies defaults, loads .env when present, then overlays the
// environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.SecretKey == DefaultSecretKey && cfg.DBDriver == "postgres" {
		slog.Warn("SECRET_KEY is not set, sessions are signed with the development default")
	}
	return cfg
}

// DSN returns DatabaseDSN, or one assembled from the DB_* parts for the
// postgres driver.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	if c.DBDriver == "sqlite" {
		return c.DBName + ".db"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func parseEnv(c *Config) {
	setString(&c.Port, "PORT")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.DBHost, "DB_HOST")
	setString(&c.DBPort, "DB_PORT")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASSWORD")
	setString(&c.DBName, "DB_NAME")

	setString(&c.SecretKey, "SECRET_KEY")
	setDuration(&c.SessionTTL, "SESSION_TTL")
	setDuration(&c.ResetTokenTTL, "RESET_TOKEN_TTL")
	setUint(&c.SuperAdminID, "SUPER_ADMIN_ID")
	setString(&c.BaseURL, "BASE_URL")

	setString(&c.SMTPHost, "SMTP_HOST")
	setInt(&c.SMTPPort, "SMTP_PORT")
	setString(&c.SMTPUsername, "SMTP_USERNAME")
	setString(&c.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.MailFrom, "MAIL_FROM")

	setString(&c.NewsAPIURL, "NEWS_API_URL")
	setString(&c.NewsAPIKey, "NEWS_API_KEY")
	setString(&c.WeatherAPIURL, "WEATHER_API_URL")
	setString(&c.WeatherAPIKey, "WEATHER_API_KEY")
	setDuration(&c.OutboundTimeout, "OUTBOUND_TIMEOUT")

	setPositiveInt(&c.Workers, "WORKERS")
	setPositiveInt(&c.QueueSize, "QUEUE_SIZE")
	setPositiveInt(&c.JobAttempts, "JOB_ATTEMPTS")

	setString(&c.LogLevel, "LOG_LEVEL")
	setPositiveInt(&c.RateLimit, "RATE_LIMIT")
	setDuration(&c.RateWindow, "RATE_WINDOW")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("ignoring malformed setting", "key", key)
		return
	}
	*dst = n
}

// setPositiveInt is setInt for settings where zero would disable the
// component outright.
func setPositiveInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring malformed setting", "key", key)
		return
	}
	*dst = n
}

func setUint(dst *uint, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		slog.Warn("ignoring malformed setting", "key", key)
		return
	}
	*dst = uint(n)
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring malformed setting", "key", key)
		return
	}
	*dst = d
}
