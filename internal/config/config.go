package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"holdops/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Auth       AuthConfig
	Log        LogConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Accounting AccountingConfig
	Companies  []domain.Company
	Sheets     SheetsConfig
	Chat       ChatConfig
	Email      EmailConfig
	S3         S3Config
	Digest     DigestConfig
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
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	Secret      string        `mapstructure:"secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// AccountingConfig holds accounting API settings.
type AccountingConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	MinorVersion     string        `mapstructure:"minor_version"`
	AccountingMethod string        `mapstructure:"accounting_method"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxElapsed       time.Duration `mapstructure:"max_elapsed"`
	SnapshotTTL      time.Duration `mapstructure:"snapshot_ttl"`
	Concurrency      int           `mapstructure:"concurrency"`
	// RefreshInterval schedules snapshot refreshes. Zero disables them.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// SheetsConfig holds Google Sheets settings. CredentialsJSON takes
// precedence over CredentialsFile.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

// Enabled reports whether any credentials are configured.
func (s *SheetsConfig) Enabled() bool {
	return s.CredentialsFile != "" || s.CredentialsJSON != ""
}

// ChatConfig holds LLM chat settings.
type ChatConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string `mapstructure:"model"`
	MaxTokens   int    `mapstructure:"max_tokens"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider     string `mapstructure:"provider"`
	Region       string `mapstructure:"region"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// DigestConfig holds monthly digest settings.
type DigestConfig struct {
	Recipients []string `mapstructure:"recipients"`
	Narrative  bool     `mapstructure:"narrative"`
}

// Load reads configuration from environment variables with the HOLDOPS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HOLDOPS")
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
	v.SetDefault("db.user", "holdops")
	v.SetDefault("db.password", "holdops_secret")
	v.SetDefault("db.name", "holdops_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "holdops")
	v.SetDefault("auth.token_expiry", "720h")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 20)

	// Accounting API defaults
	v.SetDefault("accounting.base_url", "https://quickbooks.api.intuit.com")
	v.SetDefault("accounting.minor_version", "75")
	v.SetDefault("accounting.accounting_method", domain.AccountingAccrual)
	v.SetDefault("accounting.timeout", "30s")
	v.SetDefault("accounting.max_elapsed", "45s")
	v.SetDefault("accounting.snapshot_ttl", "24h")
	v.SetDefault("accounting.concurrency", 4)
	v.SetDefault("accounting.refresh_interval", "0s")

	v.SetDefault("companies", "")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")

	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.base_url", "https://api.anthropic.com")
	v.SetDefault("chat.model", "claude-sonnet-4-20250514")
	v.SetDefault("chat.max_tokens", 1024)
	v.SetDefault("chat.timeout_secs", 60)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "ops@holdops.local")
	v.SetDefault("email.from_name", "Holdops")
	v.SetDefault("email.resend_api_key", "")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "holdops-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 900)

	v.SetDefault("digest.recipients", "")
	v.SetDefault("digest.narrative", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "HOLDOPS_SERVER_PORT",
		"server.read_timeout":            "HOLDOPS_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "HOLDOPS_SERVER_WRITE_TIMEOUT",
		"server.environment":             "HOLDOPS_SERVER_ENVIRONMENT",
		"db.host":                        "HOLDOPS_DB_HOST",
		"db.port":                        "HOLDOPS_DB_PORT",
		"db.user":                        "HOLDOPS_DB_USER",
		"db.password":                    "HOLDOPS_DB_PASSWORD",
		"db.name":                        "HOLDOPS_DB_NAME",
		"db.sslmode":                     "HOLDOPS_DB_SSLMODE",
		"db.max_open":                    "HOLDOPS_DB_MAX_OPEN",
		"db.max_idle":                    "HOLDOPS_DB_MAX_IDLE",
		"auth.secret":                    "HOLDOPS_AUTH_SECRET",
		"auth.issuer":                    "HOLDOPS_AUTH_ISSUER",
		"auth.token_expiry":              "HOLDOPS_AUTH_TOKEN_EXPIRY",
		"log.level":                      "HOLDOPS_LOG_LEVEL",
		"log.format":                     "HOLDOPS_LOG_FORMAT",
		"cors.allowed_origins":           "HOLDOPS_CORS_ALLOWED_ORIGINS",
		"rate_limit.enabled":             "HOLDOPS_RATE_LIMIT_ENABLED",
		"rate_limit.requests_per_second": "HOLDOPS_RATE_LIMIT_REQUESTS_PER_SECOND",
		"rate_limit.burst":               "HOLDOPS_RATE_LIMIT_BURST",
		"accounting.base_url":            "HOLDOPS_ACCOUNTING_BASE_URL",
		"accounting.minor_version":       "HOLDOPS_ACCOUNTING_MINOR_VERSION",
		"accounting.accounting_method":   "HOLDOPS_ACCOUNTING_ACCOUNTING_METHOD",
		"accounting.timeout":             "HOLDOPS_ACCOUNTING_TIMEOUT",
		"accounting.max_elapsed":         "HOLDOPS_ACCOUNTING_MAX_ELAPSED",
		"accounting.snapshot_ttl":        "HOLDOPS_ACCOUNTING_SNAPSHOT_TTL",
		"accounting.concurrency":         "HOLDOPS_ACCOUNTING_CONCURRENCY",
		"accounting.refresh_interval":    "HOLDOPS_ACCOUNTING_REFRESH_INTERVAL",
		"companies":                      "HOLDOPS_COMPANIES",
		"sheets.spreadsheet_id":          "HOLDOPS_SHEETS_SPREADSHEET_ID",
		"sheets.credentials_file":        "HOLDOPS_SHEETS_CREDENTIALS_FILE",
		"sheets.credentials_json":        "HOLDOPS_SHEETS_CREDENTIALS_JSON",
		"chat.api_key":                   "HOLDOPS_CHAT_API_KEY",
		"chat.base_url":                  "HOLDOPS_CHAT_BASE_URL",
		"chat.model":                     "HOLDOPS_CHAT_MODEL",
		"chat.max_tokens":                "HOLDOPS_CHAT_MAX_TOKENS",
		"chat.timeout_secs":              "HOLDOPS_CHAT_TIMEOUT_SECS",
		"email.provider":                 "HOLDOPS_EMAIL_PROVIDER",
		"email.region":                   "HOLDOPS_EMAIL_REGION",
		"email.from_address":             "HOLDOPS_EMAIL_FROM_ADDRESS",
		"email.from_name":                "HOLDOPS_EMAIL_FROM_NAME",
		"email.resend_api_key":           "HOLDOPS_EMAIL_RESEND_API_KEY",
		"s3.region":                      "HOLDOPS_S3_REGION",
		"s3.bucket":                      "HOLDOPS_S3_BUCKET",
		"s3.endpoint":                    "HOLDOPS_S3_ENDPOINT",
		"s3.access_key":                  "HOLDOPS_S3_ACCESS_KEY",
		"s3.secret_key":                  "HOLDOPS_S3_SECRET_KEY",
		"s3.presign_expiry":              "HOLDOPS_S3_PRESIGN_EXPIRY",
		"digest.recipients":              "HOLDOPS_DIGEST_RECIPIENTS",
		"digest.narrative":               "HOLDOPS_DIGEST_NARRATIVE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HOLDOPS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HOLDOPS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		Secret:      v.GetString("auth.secret"),
		Issuer:      v.GetString("auth.issuer"),
		TokenExpiry: v.GetDuration("auth.token_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:           v.GetBool("rate_limit.enabled"),
		RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
		Burst:             v.GetInt("rate_limit.burst"),
	}
	cfg.Accounting = AccountingConfig{
		BaseURL:          strings.TrimRight(v.GetString("accounting.base_url"), "/"),
		MinorVersion:     v.GetString("accounting.minor_version"),
		AccountingMethod: v.GetString("accounting.accounting_method"),
		Timeout:          v.GetDuration("accounting.timeout"),
		MaxElapsed:       v.GetDuration("accounting.max_elapsed"),
		SnapshotTTL:      v.GetDuration("accounting.snapshot_ttl"),
		Concurrency:      v.GetInt("accounting.concurrency"),
		RefreshInterval:  v.GetDuration("accounting.refresh_interval"),
	}

	companies, err := ParseCompanies(v.GetString("companies"))
	if err != nil {
		return nil, err
	}
	cfg.Companies = companies

	cfg.Sheets = SheetsConfig{
		SpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
		CredentialsFile: v.GetString("sheets.credentials_file"),
		CredentialsJSON: v.GetString("sheets.credentials_json"),
	}
	cfg.Chat = ChatConfig{
		APIKey:      v.GetString("chat.api_key"),
		BaseURL:     strings.TrimRight(v.GetString("chat.base_url"), "/"),
		Model:       v.GetString("chat.model"),
		MaxTokens:   v.GetInt("chat.max_tokens"),
		TimeoutSecs: v.GetInt("chat.timeout_secs"),
	}
	cfg.Email = EmailConfig{
		Provider:     v.GetString("email.provider"),
		Region:       v.GetString("email.region"),
		FromAddress:  v.GetString("email.from_address"),
		FromName:     v.GetString("email.from_name"),
		ResendAPIKey: v.GetString("email.resend_api_key"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Digest = DigestConfig{
		Recipients: splitList(v.GetString("digest.recipients")),
		Narrative:  v.GetBool("digest.narrative"),
	}

	return cfg, nil
}

// ParseCompanies parses a comma-separated list of slug:realmID:Display Name
// entries. The display name defaults to the slug.
func ParseCompanies(raw string) ([]domain.Company, error) {
	var companies []domain.Company
	seen := make(map[string]bool)
	for _, entry := range splitList(raw) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("parsing companies: entry %q must be slug:realmID[:name]", entry)
		}
		c := domain.Company{
			Slug:    strings.ToLower(strings.TrimSpace(parts[0])),
			RealmID: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			c.Name = strings.TrimSpace(parts[2])
		}
		if c.Slug == "" || c.RealmID == "" {
			return nil, fmt.Errorf("parsing companies: entry %q has an empty slug or realm", entry)
		}
		if seen[c.Slug] {
			return nil, fmt.Errorf("parsing companies: duplicate slug %q", c.Slug)
		}
		seen[c.Slug] = true
		if c.Name == "" {
			c.Name = c.Slug
		}
		companies = append(companies, c)
	}
	return companies, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
