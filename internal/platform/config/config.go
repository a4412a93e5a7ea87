package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr                 string
	WebAddr              string
	DatabaseURL          string
	JWTSecret            string
	DataEncryptionKey    string
	Environment          string
	APIBaseURL           string
	APITimeout           time.Duration
	CookieSecure         bool
	RunMigrations        bool
	RunSeed              bool
	SeedPassword         string
	EmailFrom            string
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	SMTPUseTLS           bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	SessionPurgeInterval time.Duration
	MetricsEnabled       bool
}

// fileConfig mirrors Config for CONFIG_FILE. Durations are kept as raw strings
// and pointer fields distinguish "unset" from the zero value.
type fileConfig struct {
	Server struct {
		Addr               string `yaml:"addr"`
		Environment        string `yaml:"environment"`
		JWTSecret          string `yaml:"jwt_secret"`
		DataEncryptionKey  string `yaml:"data_encryption_key"`
		MaxBodyBytes       int64  `yaml:"max_body_bytes"`
		RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
		SessionPurgeRaw    string `yaml:"session_purge_interval"`
		MetricsEnabled     *bool  `yaml:"metrics_enabled"`
	} `yaml:"server"`
	Database struct {
		URL           string `yaml:"url"`
		RunMigrations *bool  `yaml:"run_migrations"`
		RunSeed       *bool  `yaml:"run_seed"`
		SeedPassword  string `yaml:"seed_password"`
	} `yaml:"database"`
	Web struct {
		Addr          string `yaml:"addr"`
		APIBaseURL    string `yaml:"api_base_url"`
		APITimeoutRaw string `yaml:"api_timeout"`
		CookieSecure  *bool  `yaml:"cookie_secure"`
	} `yaml:"web"`
	Email struct {
		Enabled      *bool  `yaml:"enabled"`
		From         string `yaml:"from"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		SMTPUseTLS   *bool  `yaml:"smtp_use_tls"`
	} `yaml:"email"`
}

func Defaults() Config {
	return Config{
		Addr:                 ":8080",
		WebAddr:              ":3000",
		Environment:          "development",
		APIBaseURL:           "http://localhost:8080",
		APITimeout:           10 * time.Second,
		RunMigrations:        true,
		RunSeed:              true,
		EmailFrom:            "no-reply@example.com",
		SMTPPort:             587,
		SMTPUseTLS:           true,
		MaxBodyBytes:         1048576,
		RateLimitPerMinute:   60,
		SessionPurgeInterval: time.Hour,
		MetricsEnabled:       true,
	}
}

// Load applies defaults, then the optional CONFIG_FILE, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}

	setString(&cfg.Addr, fc.Server.Addr)
	setString(&cfg.Environment, fc.Server.Environment)
	setString(&cfg.JWTSecret, fc.Server.JWTSecret)
	setString(&cfg.DataEncryptionKey, fc.Server.DataEncryptionKey)
	if fc.Server.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.Server.MaxBodyBytes
	}
	if fc.Server.RateLimitPerMinute > 0 {
		cfg.RateLimitPerMinute = fc.Server.RateLimitPerMinute
	}
	if err := setDuration(&cfg.SessionPurgeInterval, fc.Server.SessionPurgeRaw); err != nil {
		return fmt.Errorf("config: server.session_purge_interval: %w", err)
	}
	setBool(&cfg.MetricsEnabled, fc.Server.MetricsEnabled)

	setString(&cfg.DatabaseURL, fc.Database.URL)
	setBool(&cfg.RunMigrations, fc.Database.RunMigrations)
	setBool(&cfg.RunSeed, fc.Database.RunSeed)
	setString(&cfg.SeedPassword, fc.Database.SeedPassword)

	setString(&cfg.WebAddr, fc.Web.Addr)
	setString(&cfg.APIBaseURL, fc.Web.APIBaseURL)
	if err := setDuration(&cfg.APITimeout, fc.Web.APITimeoutRaw); err != nil {
		return fmt.Errorf("config: web.api_timeout: %w", err)
	}
	setBool(&cfg.CookieSecure, fc.Web.CookieSecure)

	setBool(&cfg.EmailEnabled, fc.Email.Enabled)
	setString(&cfg.EmailFrom, fc.Email.From)
	setString(&cfg.SMTPHost, fc.Email.SMTPHost)
	if fc.Email.SMTPPort > 0 {
		cfg.SMTPPort = fc.Email.SMTPPort
	}
	setString(&cfg.SMTPUser, fc.Email.SMTPUser)
	setString(&cfg.SMTPPassword, fc.Email.SMTPPassword)
	setBool(&cfg.SMTPUseTLS, fc.Email.SMTPUseTLS)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = getEnv("APP_ADDR", cfg.Addr)
	cfg.WebAddr = getEnv("WEB_ADDR", cfg.WebAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.DataEncryptionKey = getEnv("DATA_ENCRYPTION_KEY", cfg.DataEncryptionKey)
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.APITimeout = getEnvDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.RunMigrations = getEnvBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.RunSeed = getEnvBool("RUN_SEED", cfg.RunSeed)
	cfg.SeedPassword = getEnv("SEED_PASSWORD", cfg.SeedPassword)
	cfg.EmailFrom = getEnv("EMAIL_FROM", cfg.EmailFrom)
	cfg.EmailEnabled = getEnvBool("EMAIL_ENABLED", cfg.EmailEnabled)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUser = getEnv("SMTP_USER", cfg.SMTPUser)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPUseTLS = getEnvBool("SMTP_USE_TLS", cfg.SMTPUseTLS)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.SessionPurgeInterval = getEnvDuration("SESSION_PURGE_INTERVAL", cfg.SessionPurgeInterval)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func setString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

func setDuration(dst *time.Duration, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// ValidateServer checks the settings the API server cannot start without.
func (c Config) ValidateServer() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedPassword) == "" {
			return fmt.Errorf("SEED_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}

// ValidateWeb checks the settings the portal cannot start without.
func (c Config) ValidateWeb() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.IsProduction() && !c.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be enabled in production")
	}
	return nil
}
