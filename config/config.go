package config

import (
	"strings"
	"time"

	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultMaxRequestBodySize = "2MB"
	defaultCookieName         = "sessionid"
	defaultMetricsPath        = "/metrics"
	defaultBucketURL          = "mem://"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the whole of config.yaml. Nested sections that may be absent
// are pointers and are filled in by applyDefaults.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Database *DatabaseConfig `json:"database" yaml:"database"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SQLite *SQLiteConfig `json:"sqlite" yaml:"sqlite"`

	Session *SessionConfig `json:"session" yaml:"session"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	PasswordStrength *PasswordStrengthConfig `json:"passwordStrength" yaml:"passwordStrength"`

	// Storage holds the blob bucket used for uploaded profile images
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// DatabaseConfig selects the gorm dialector
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver      string `json:"driver" yaml:"driver"`
	AutoMigrate bool   `json:"autoMigrate" yaml:"autoMigrate"`
}

// SQLiteConfig is used for local development and tests
type SQLiteConfig struct {
	// DSN is a file path or "file::memory:?cache=shared"
	DSN string `json:"dsn" yaml:"dsn"`
}

// SessionConfig defines the signed session cookie
type SessionConfig struct {
	Secret     string `json:"secret" yaml:"secret"`
	CookieName string `json:"cookieName" yaml:"cookieName"`
	Secure     bool   `json:"secure" yaml:"secure"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// PasswordStrengthConfig defines password strength requirements
type PasswordStrengthConfig struct {
	MinLength int `json:"minLength" yaml:"minLength"`
	MaxLength int `json:"maxLength" yaml:"maxLength"`
	// MaxSimilarity is the username similarity ratio above which a password is rejected
	MaxSimilarity float64 `json:"maxSimilarity" yaml:"maxSimilarity"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

type StorageConfig struct {
	// BucketURL is any gocloud.dev/blob URL, e.g. file:///var/lib/library/media or mem://
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Database == nil {
		cfg.Database = &DatabaseConfig{}
	}
	setDefault(&cfg.Database.Driver, DriverPostgres)

	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	setDefault(&cfg.Session.CookieName, defaultCookieName)

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	setDefault(&cfg.Storage.BucketURL, defaultBucketURL)

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	setDefault(&cfg.Metrics.Path, defaultMetricsPath)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
