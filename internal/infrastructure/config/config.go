package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Profile names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// DebugEnvVar selects the development profile when set to a true value.
const DebugEnvVar = "APP_DEBUG"

// Config holds all application configuration.
//
// Fields carry envconfig tags without defaults: values come from the
// selected profile and are only overridden when the variable is set.
type Config struct {
	Env                string   `envconfig:"APP_ENV"`
	Debug              bool     `envconfig:"APP_DEBUG"`
	SecretKey          string   `envconfig:"SECRET_KEY"`
	SecretKeyFallbacks []string `envconfig:"SECRET_KEY_FALLBACKS"`
	ProjectRoot        string   `envconfig:"PROJECT_ROOT"`
	StrictSlashes      bool     `envconfig:"STRICT_SLASHES"`

	Server     ServerConfig
	Logging    LogConfig
	Session    SessionConfig
	CSRF       CSRFConfig
	Templates  TemplateConfig
	Bundles    BundleConfig
	Migrations MigrationConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Compress   CompressConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT"`
	Host            string        `envconfig:"HOST"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL"`
	Development bool   `envconfig:"LOG_DEV"`
}

// SessionConfig holds session cookie and store configuration.
type SessionConfig struct {
	CookieName string        `envconfig:"SESSION_COOKIE_NAME"`
	Lifetime   time.Duration `envconfig:"SESSION_LIFETIME"`
	Secure     bool          `envconfig:"SESSION_COOKIE_SECURE"`
	Store      string        `envconfig:"SESSION_STORE"` // "memory" or "redis"
	MaxEntries int           `envconfig:"SESSION_MEMORY_SIZE"`
}

// CSRFConfig holds anti-forgery token configuration.
type CSRFConfig struct {
	Enabled    bool          `envconfig:"CSRF_ENABLED"`
	CookieName string        `envconfig:"CSRF_COOKIE_NAME"`
	HeaderName string        `envconfig:"CSRF_HEADER_NAME"`
	TimeLimit  time.Duration `envconfig:"CSRF_TIME_LIMIT"`
}

// TemplateConfig holds template and static file locations.
type TemplateConfig struct {
	Folder        string `envconfig:"TEMPLATE_FOLDER"`
	StaticFolder  string `envconfig:"STATIC_FOLDER"`
	StaticURLPath string `envconfig:"STATIC_URL_PATH"`
}

// BundleConfig controls bundle discovery.
type BundleConfig struct {
	// Roots are directories whose child folders hold bundle manifests.
	Roots []string `envconfig:"BUNDLE_ROOTS"`
	// Enabled is an ordered allow-list of bundle names. Empty enables all.
	Enabled []string `envconfig:"BUNDLES"`
}

// VersionLocation pairs a bundle with its migrations directory.
type VersionLocation struct {
	Bundle string
	Path   string
}

// MigrationConfig holds migration settings. VersionLocations is computed
// during bootstrap, one entry per attached bundle.
type MigrationConfig struct {
	ScriptLocation   string            `envconfig:"MIGRATIONS_SCRIPT_LOCATION"`
	VersionLocations []VersionLocation `ignored:"true"`
}

// DatabaseConfig holds Postgres connection settings. An empty URL
// disables the database extension.
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	MaxConns int32  `envconfig:"DATABASE_MAX_CONNS"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	Enabled      bool          `envconfig:"CORS_ENABLED"`
	AllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS"`
	MaxAge       time.Duration `envconfig:"CORS_MAX_AGE"`
}

// CompressConfig holds response compression settings.
type CompressConfig struct {
	Enabled bool `envconfig:"COMPRESS_ENABLED"`
	Level   int  `envconfig:"COMPRESS_LEVEL"`
}

// Default returns the base configuration shared by every profile.
func Default() *Config {
	return &Config{
		Env:         EnvProduction,
		SecretKey:   "not-secret-key",
		ProjectRoot: ".",
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level: "info",
		},
		Session: SessionConfig{
			CookieName: "session",
			Lifetime:   31 * 24 * time.Hour,
			Store:      "memory",
			MaxEntries: 10000,
		},
		CSRF: CSRFConfig{
			Enabled:    true,
			CookieName: "csrf_token",
			HeaderName: "X-CSRFToken",
			TimeLimit:  time.Hour,
		},
		Templates: TemplateConfig{
			Folder:        "templates",
			StaticFolder:  "static",
			StaticURLPath: "/static",
		},
		Bundles: BundleConfig{
			Roots: []string{"bundles"},
		},
		Migrations: MigrationConfig{
			ScriptLocation: "migrations",
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "session:",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Enabled:      true,
			AllowOrigins: []string{"*"},
			MaxAge:       12 * time.Hour,
		},
		Compress: CompressConfig{
			Enabled: true,
		},
	}
}

// Dev returns the development profile.
func Dev() *Config {
	cfg := Default()
	cfg.Env = EnvDevelopment
	cfg.Debug = true
	cfg.Logging.Level = "debug"
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	return cfg
}

// Prod returns the production profile.
func Prod() *Config {
	cfg := Default()
	cfg.Session.Secure = true
	return cfg
}

// Test returns a profile suitable for tests: no filesystem discovery,
// no templates, no rate limiting.
func Test() *Config {
	cfg := Default()
	cfg.Env = EnvTest
	cfg.Debug = true
	cfg.Logging.Level = "error"
	cfg.Templates = TemplateConfig{}
	cfg.Bundles.Roots = nil
	cfg.RateLimit.Enabled = false
	cfg.CORS.Enabled = false
	cfg.CSRF.Enabled = false
	cfg.Compress.Enabled = false
	return cfg
}

// Select returns the development profile when debug is set and the
// production profile otherwise.
func Select(debug bool) *Config {
	if debug {
		return Dev()
	}
	return Prod()
}

// DebugFlag reports whether APP_DEBUG is set to a true value.
func DebugFlag() bool {
	v, err := strconv.ParseBool(os.Getenv(DebugEnvVar))
	return err == nil && v
}

// Load selects a profile from APP_DEBUG and applies environment overrides.
func Load() (*Config, error) {
	return LoadProfile(Select(DebugFlag()))
}

// LoadProfile applies environment overrides on top of cfg.
func LoadProfile(cfg *Config) (*Config, error) {
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsDevelopment reports whether the development profile is active.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
