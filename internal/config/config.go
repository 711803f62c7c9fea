package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Bootstrap    BootstrapConfig
	Metrics      MetricsConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing and password hashing parameters.
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	Audience              string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// AccessTokenTTL returns the token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// BootstrapConfig describes the admin account ensured at startup. Empty email disables it.
type BootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Enabled reports whether an admin should be bootstrapped.
func (b BootstrapConfig) Enabled() bool {
	return b.AdminEmail != "" && b.AdminPassword != ""
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from the environment, after merging a .env file when one
// exists. Malformed numeric or boolean values are reported rather than replaced by defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		App:          loadApp(env),
		Postgres:     loadPostgres(env),
		Redis:        loadRedis(env),
		Logger:       LoggerConfig{Level: env.str("LOG_LEVEL", "info")},
		Auth:         loadAuth(env),
		Bootstrap:    loadBootstrap(env),
		Metrics:      MetricsConfig{Enabled: env.boolean("METRICS_ENABLED", true), Path: env.str("METRICS_PATH", "/metrics")},
		Notification: NotificationConfig{EmailFrom: env.str("NOTIFY_EMAIL_FROM", ""), WebhookURL: env.str("NOTIFY_WEBHOOK_URL", "")},
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" && cfg.App.IsDevelopment() {
		cfg.Auth.JWTSecret = "dev-secret"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(env *envReader) AppConfig {
	return AppConfig{
		Name:                  env.str("APP_NAME", "complaint-service"),
		Env:                   env.str("APP_ENV", "development"),
		Host:                  env.str("APP_HOST", "0.0.0.0"),
		Port:                  env.str("APP_PORT", "8080"),
		Version:               env.str("APP_VERSION", "dev"),
		RequestTimeoutSeconds: env.integer("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres(env *envReader) PostgresConfig {
	return PostgresConfig{
		DSN:            env.str("POSTGRES_DSN", ""),
		MaxConns:       int32(env.integer("POSTGRES_MAX_CONNS", 10)),
		MinConns:       int32(env.integer("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:  env.boolean("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir:  env.str("MIGRATIONS_DIR", "migrations"),
		ConnMaxIdleSec: int32(env.integer("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec: int32(env.integer("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}
}

func loadRedis(env *envReader) RedisConfig {
	return RedisConfig{
		Addr:     env.str("REDIS_ADDR", "127.0.0.1:6379"),
		Password: env.str("REDIS_PASSWORD", ""),
		DB:       env.integer("REDIS_DB", 0),
	}
}

func loadAuth(env *envReader) AuthConfig {
	return AuthConfig{
		JWTSecret:             env.str("AUTH_JWT_SECRET", ""),
		Issuer:                env.str("AUTH_JWT_ISSUER", "complaint_management_system"),
		Audience:              env.str("AUTH_JWT_AUDIENCE", "complaint_management_app"),
		AccessTokenTTLMinutes: env.integer("AUTH_ACCESS_TOKEN_TTL_MINUTES", 1440),
		BcryptCost:            env.integer("AUTH_BCRYPT_COST", 12),
	}
}

func loadBootstrap(env *envReader) BootstrapConfig {
	return BootstrapConfig{
		AdminName:     env.str("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		AdminEmail:    env.str("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: env.str("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required outside development"))
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST out of range: %d", c.Auth.BcryptCost))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in the development environment.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// envReader reads typed variables and collects parse failures.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func (r *envReader) integer(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}

func (r *envReader) boolean(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return parsed
}
