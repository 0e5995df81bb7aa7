package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	GinMode  string
	LogLevel string
}

type ServerConfig struct {
	Port string
}

type DataConfig struct {
	Dir         string
	SourcesFile string
	ResultsPath string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	User         string
	PasswordHash string
}

// DefaultSessionSecret is only fit for local runs; release mode refuses it.
const DefaultSessionSecret = "change-me-session-secret"

func New() *Config {
	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Data: DataConfig{
			Dir:         dataDir,
			SourcesFile: getEnv("SOURCES_FILE", "sources.yaml"),
			ResultsPath: getEnv("RESULTS_PATH", filepath.Join(dataDir, "evaluation_results.csv")),
		},
		Database: DatabaseConfig{
			Enabled:  getEnv("DB_ENABLED", "false") == "true",
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "review_eval"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", DefaultSessionSecret),
			TTL:    getDuration("SESSION_TTL", 12*time.Hour),
		},
		Admin: AdminConfig{
			User:         getEnv("ADMIN_USER", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func (c *Config) GetDatabaseURL() string {
	return c.buildDatabaseURL()
}

func (c *Config) buildDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Database.Host + ":" + c.Database.Port,
		Path:   "/" + c.Database.DBName,
	}
	if c.Database.Password != "" {
		u.User = url.UserPassword(c.Database.User, c.Database.Password)
	} else {
		u.User = url.User(c.Database.User)
	}
	if c.Database.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.Database.SSLMode}}.Encode()
	}
	return u.String()
}

// AdminEnabled reports whether the results export route is mounted.
func (c *Config) AdminEnabled() bool {
	return c.Admin.PasswordHash != ""
}

func (c *Config) UsesDefaultSessionSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}

// CheckSessionSecret rejects the built-in session secret in release mode,
// where it would let anyone forge a rater session.
func (c *Config) CheckSessionSecret() error {
	if c.GinMode == "release" && c.UsesDefaultSessionSecret() {
		return errors.New("SESSION_SECRET must be set in release mode")
	}
	return nil
}
