package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Report  ReportConfig
	Export  ExportConfig
	Redis   RedisConfig
	Metrics MetricsConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpen         int           `mapstructure:"max_open"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT settings. The server only verifies tokens; bizctl
// can issue them for local use.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds export archive bucket settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ReportConfig bounds listings and exports.
type ReportConfig struct {
	DefaultPageSize int  `mapstructure:"default_page_size"`
	MaxPageSize     int  `mapstructure:"max_page_size"`
	MaxExportRows   int  `mapstructure:"max_export_rows"`
	SkipDangling    bool `mapstructure:"skip_dangling"`
}

// ExportConfig holds export endpoint settings.
type ExportConfig struct {
	RateLimit      string `mapstructure:"rate_limit"`
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	ArchivePrefix  string `mapstructure:"archive_prefix"`
}

// RedisConfig holds the lookup cache connection.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	LookupTTL time.Duration `mapstructure:"lookup_ttl"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from environment variables with the BUSINESSATHI_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BUSINESSATHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "businessathi")
	v.SetDefault("db.password", "businessathi_secret")
	v.SetDefault("db.name", "businessathi_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.issuer", "businessathi")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "businessathi-exports")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Report defaults
	v.SetDefault("report.default_page_size", 15)
	v.SetDefault("report.max_page_size", 100)
	v.SetDefault("report.max_export_rows", 10000)
	v.SetDefault("report.skip_dangling", false)

	// Export defaults
	v.SetDefault("export.rate_limit", "10-M")
	v.SetDefault("export.archive_enabled", false)
	v.SetDefault("export.archive_prefix", "exports")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lookup_ttl", "5m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "BUSINESSATHI_SERVER_PORT",
		"server.read_timeout":      "BUSINESSATHI_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "BUSINESSATHI_SERVER_WRITE_TIMEOUT",
		"server.environment":       "BUSINESSATHI_SERVER_ENVIRONMENT",
		"db.host":                  "BUSINESSATHI_DB_HOST",
		"db.port":                  "BUSINESSATHI_DB_PORT",
		"db.user":                  "BUSINESSATHI_DB_USER",
		"db.password":              "BUSINESSATHI_DB_PASSWORD",
		"db.name":                  "BUSINESSATHI_DB_NAME",
		"db.sslmode":               "BUSINESSATHI_DB_SSLMODE",
		"db.max_open":              "BUSINESSATHI_DB_MAX_OPEN",
		"db.max_idle":              "BUSINESSATHI_DB_MAX_IDLE",
		"db.conn_max_lifetime":     "BUSINESSATHI_DB_CONN_MAX_LIFETIME",
		"jwt.secret":               "BUSINESSATHI_JWT_SECRET",
		"jwt.access_expiry":        "BUSINESSATHI_JWT_ACCESS_EXPIRY",
		"jwt.issuer":               "BUSINESSATHI_JWT_ISSUER",
		"s3.region":                "BUSINESSATHI_S3_REGION",
		"s3.bucket":                "BUSINESSATHI_S3_BUCKET",
		"s3.endpoint":              "BUSINESSATHI_S3_ENDPOINT",
		"s3.access_key":            "BUSINESSATHI_S3_ACCESS_KEY",
		"s3.secret_key":            "BUSINESSATHI_S3_SECRET_KEY",
		"log.level":                "BUSINESSATHI_LOG_LEVEL",
		"log.format":               "BUSINESSATHI_LOG_FORMAT",
		"log.output":               "BUSINESSATHI_LOG_OUTPUT",
		"cors.allowed_origins":     "BUSINESSATHI_CORS_ALLOWED_ORIGINS",
		"report.default_page_size": "BUSINESSATHI_REPORT_DEFAULT_PAGE_SIZE",
		"report.max_page_size":     "BUSINESSATHI_REPORT_MAX_PAGE_SIZE",
		"report.max_export_rows":   "BUSINESSATHI_REPORT_MAX_EXPORT_ROWS",
		"report.skip_dangling":     "BUSINESSATHI_REPORT_SKIP_DANGLING",
		"export.rate_limit":        "BUSINESSATHI_EXPORT_RATE_LIMIT",
		"export.archive_enabled":   "BUSINESSATHI_EXPORT_ARCHIVE_ENABLED",
		"export.archive_prefix":    "BUSINESSATHI_EXPORT_ARCHIVE_PREFIX",
		"redis.enabled":            "BUSINESSATHI_REDIS_ENABLED",
		"redis.addr":               "BUSINESSATHI_REDIS_ADDR",
		"redis.password":           "BUSINESSATHI_REDIS_PASSWORD",
		"redis.db":                 "BUSINESSATHI_REDIS_DB",
		"redis.lookup_ttl":         "BUSINESSATHI_REDIS_LOOKUP_TTL",
		"metrics.enabled":          "BUSINESSATHI_METRICS_ENABLED",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BUSINESSATHI_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BUSINESSATHI_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:            v.GetString("db.host"),
		Port:            v.GetInt("db.port"),
		User:            v.GetString("db.user"),
		Password:        v.GetString("db.password"),
		Name:            v.GetString("db.name"),
		SSLMode:         v.GetString("db.sslmode"),
		MaxOpen:         v.GetInt("db.max_open"),
		MaxIdle:         v.GetInt("db.max_idle"),
		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Report = ReportConfig{
		DefaultPageSize: v.GetInt("report.default_page_size"),
		MaxPageSize:     v.GetInt("report.max_page_size"),
		MaxExportRows:   v.GetInt("report.max_export_rows"),
		SkipDangling:    v.GetBool("report.skip_dangling"),
	}
	if cfg.Report.DefaultPageSize <= 0 || cfg.Report.MaxPageSize < cfg.Report.DefaultPageSize {
		return nil, fmt.Errorf("config: invalid page sizes default=%d max=%d", cfg.Report.DefaultPageSize, cfg.Report.MaxPageSize)
	}
	if cfg.Report.MaxExportRows <= 0 {
		return nil, fmt.Errorf("config: max_export_rows must be positive")
	}

	cfg.Export = ExportConfig{
		RateLimit:      v.GetString("export.rate_limit"),
		ArchiveEnabled: v.GetBool("export.archive_enabled"),
		ArchivePrefix:  strings.Trim(v.GetString("export.archive_prefix"), "/"),
	}

	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("redis.enabled"),
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		LookupTTL: v.GetDuration("redis.lookup_ttl"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
	}

	return cfg, nil
}
