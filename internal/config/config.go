package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	AppPort string `yaml:"app_port"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	PGHost    string `yaml:"pg_host"`
	PGPort    string `yaml:"pg_port"`
	PGDB      string `yaml:"pg_db"`
	PGUser    string `yaml:"pg_user"`
	PGPass    string `yaml:"pg_pass"`
	PGSSLMode string `yaml:"pg_sslmode"`

	MySQLHost string `yaml:"mysql_host"`
	MySQLPort string `yaml:"mysql_port"`
	MySQLDB   string `yaml:"mysql_db"`
	MySQLUser string `yaml:"mysql_user"`
	MySQLPass string `yaml:"mysql_pass"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	IdempTTLSecs int `yaml:"idempotency_ttl_seconds"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// PenaltyAmount is the flat fee added once to an installment that turns overdue.
	PenaltyAmount string        `yaml:"penalty_amount"`
	GraceDays     int           `yaml:"grace_days"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	DashboardCacheTTL        time.Duration `yaml:"dashboard_cache_ttl"`
	DashboardRefreshInterval time.Duration `yaml:"dashboard_refresh_interval"`
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func defaults() *Config {
	return &Config{
		AppPort:   "8080",
		DBDriver:  DriverPostgres,
		PGHost:    "postgres",
		PGPort:    "5432",
		PGDB:      "crediya",
		PGUser:    "crediya",
		PGPass:    "crediya",
		PGSSLMode: "disable",
		MySQLHost: "mysql",
		MySQLPort: "3306",
		MySQLDB:   "crediya",
		MySQLUser: "crediya",
		MySQLPass: "crediya",

		RedisAddr:    "redis:6379",
		IdempTTLSecs: 300,

		JWTTTL:    12 * time.Hour,
		LogLevel:  "info",
		LogFormat: "json",

		PenaltyAmount: "50.00",
		GraceDays:     0,
		SweepInterval: time.Hour,

		DashboardCacheTTL:        5 * time.Minute,
		DashboardRefreshInterval: 5 * time.Minute,
	}
}

// Load builds the config from defaults, then the optional YAML file named by
// CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.AppPort = getenv("APP_PORT", c.AppPort)
	c.DBDriver = getenv("DB_DRIVER", c.DBDriver)
	c.DatabaseURL = getenv("DATABASE_URL", c.DatabaseURL)

	c.PGHost = getenv("PG_HOST", c.PGHost)
	c.PGPort = getenv("PG_PORT", c.PGPort)
	c.PGDB = getenv("PG_DB", c.PGDB)
	c.PGUser = getenv("PG_USER", c.PGUser)
	c.PGPass = getenv("PG_PASS", c.PGPass)
	c.PGSSLMode = getenv("PG_SSLMODE", c.PGSSLMode)

	c.MySQLHost = getenv("MYSQL_HOST", c.MySQLHost)
	c.MySQLPort = getenv("MYSQL_PORT", c.MySQLPort)
	c.MySQLDB = getenv("MYSQL_DB", c.MySQLDB)
	c.MySQLUser = getenv("MYSQL_USER", c.MySQLUser)
	c.MySQLPass = getenv("MYSQL_PASS", c.MySQLPass)

	c.RedisAddr = getenv("REDIS_ADDR", c.RedisAddr)
	c.JWTSecret = getenv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)
	c.PenaltyAmount = getenv("PENALTY_AMOUNT", c.PenaltyAmount)

	ints := []struct {
		key string
		dst *int
	}{
		{"REDIS_DB", &c.RedisDB},
		{"IDEMPOTENCY_TTL_SECONDS", &c.IdempTTLSecs},
		{"GRACE_DAYS", &c.GraceDays},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
			}
			*e.dst = n
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_TTL", &c.JWTTTL},
		{"SWEEP_INTERVAL", &c.SweepInterval},
		{"DASHBOARD_CACHE_TTL", &c.DashboardCacheTTL},
		{"DASHBOARD_REFRESH_INTERVAL", &c.DashboardRefreshInterval},
	}
	for _, e := range durations {
		if v := os.Getenv(e.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
			}
			*e.dst = d
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			if c.PGHost == "" || c.PGPort == "" || c.PGDB == "" || c.PGUser == "" {
				return errors.New("missing Postgres config (DATABASE_URL or PG_HOST/PORT/DB/USER)")
			}
			if _, err := net.LookupPort("tcp", c.PGPort); err != nil {
				return fmt.Errorf("invalid PG_PORT %q: %w", c.PGPort, err)
			}
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	p, err := decimal.NewFromString(c.PenaltyAmount)
	if err != nil || p.IsNegative() {
		return fmt.Errorf("invalid PENALTY_AMOUNT %q", c.PenaltyAmount)
	}
	if c.GraceDays < 0 {
		return errors.New("GRACE_DAYS must not be negative")
	}
	if c.SweepInterval <= 0 || c.DashboardRefreshInterval <= 0 {
		return errors.New("SWEEP_INTERVAL and DASHBOARD_REFRESH_INTERVAL must be positive")
	}
	// a zero TTL in Redis means the key never expires
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.DashboardCacheTTL <= 0 {
		return errors.New("DASHBOARD_CACHE_TTL must be positive")
	}
	return nil
}

// Penalty returns PenaltyAmount as money. Call Validate first.
func (c *Config) Penalty() decimal.Decimal {
	p, err := decimal.NewFromString(c.PenaltyAmount)
	if err != nil {
		return decimal.Zero
	}
	return p.Round(2)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverMySQL {
		return c.MySQLDSN()
	}
	return c.PostgresDSN()
}

func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGDB, c.PGSSLMode)
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
