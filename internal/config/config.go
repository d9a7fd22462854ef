package config

import (
	"fmt"

	pkgconfig "github.com/utafrali/OrderEntryGo/pkg/config"
)

// Config holds all configuration for the order-entry service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"orderentry"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"orderentry_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"order_entry_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (rates cache)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Upstream exchange-rate provider; empty disables the upstream sync and
	// rates come from the database only.
	RatesProviderURL string `env:"RATES_PROVIDER_URL" envDefault:""`
	RatesCacheTTLMin int    `env:"RATES_CACHE_TTL_MINUTES" envDefault:"60"`

	// Validation
	StrictProductNames bool `env:"STRICT_PRODUCT_NAMES" envDefault:"false"`

	// HTTP surface
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"" envSeparator:","`
	PprofAllowedCIDRs  []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
	OrderRateLimit     int      `env:"ORDER_RATE_LIMIT_RPS" envDefault:"5"`
	OrderRateBurst     int      `env:"ORDER_RATE_LIMIT_BURST" envDefault:"10"`
	RefDataCacheMaxAge int      `env:"REFDATA_CACHE_MAX_AGE_SECONDS" envDefault:"300"`

	// Confirmation email
	CompanyName  string `env:"COMPANY_NAME" envDefault:"Order Entry"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:""`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME" envDefault:""`
	SMTPPassword string `env:"SMTP_PASSWORD" envDefault:""`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"orders@localhost"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load order-entry config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.OrderRateLimit < 1 {
		return fmt.Errorf("invalid order rate limit: %d", c.OrderRateLimit)
	}
	if c.RatesCacheTTLMin < 1 {
		return fmt.Errorf("invalid rates cache TTL: %d", c.RatesCacheTTLMin)
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// RedisAddr returns the Redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
