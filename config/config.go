package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hotel-desk/utils"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Booking  BookingConfig  `yaml:"booking"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	CorsOrigins     []string      `yaml:"cors_origins"`
	SecureCookie    bool          `yaml:"secure_cookie"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
}

// RedisConfig is optional. An empty address disables the stats cache.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StatsTTL time.Duration `yaml:"stats_ttl"`
}

type BookingConfig struct {
	AllocationRetries int  `yaml:"allocation_retries"`
	EnforceDateOrder  bool `yaml:"enforce_date_order"`
}

// JobsConfig holds cron specs. An empty schedule disables the job.
type JobsConfig struct {
	AuditSchedule string `yaml:"audit_schedule"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			CorsOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			User:            "root",
			Host:            "127.0.0.1",
			Port:            "3306",
			Name:            "hotel_db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:      12 * time.Hour,
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
		Redis: RedisConfig{
			StatsTTL: 30 * time.Second,
		},
		Booking: BookingConfig{
			AllocationRetries: 5,
		},
		Jobs: JobsConfig{
			AuditSchedule: "@every 1h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order. A .env file in the working directory is
// loaded first when present. Missing files are not an error.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = utils.EnvOrDefault("PORT", cfg.Server.Port)
	if raw := utils.EnvOrDefault("CORS_ORIGINS", ""); raw != "" {
		cfg.Server.CorsOrigins = utils.SplitList(raw)
	}
	cfg.Server.SecureCookie = utils.EnvBool("COOKIE_SECURE", cfg.Server.SecureCookie)

	cfg.Database.URL = utils.EnvOrDefault("MYSQL_URL", utils.EnvOrDefault("DATABASE_URL", cfg.Database.URL))
	cfg.Database.User = utils.EnvOrDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = utils.EnvOrDefault("DB_PASS", cfg.Database.Password)
	cfg.Database.Host = utils.EnvOrDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = utils.EnvOrDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.Name = utils.EnvOrDefault("DB_NAME", cfg.Database.Name)
	cfg.Database.MaxOpenConns = utils.EnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)

	cfg.Auth.JWTSecret = utils.EnvOrDefault("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = utils.EnvDuration("TOKEN_TTL", cfg.Auth.TokenTTL)
	cfg.Auth.AdminUsername = utils.EnvOrDefault("ADMIN_USERNAME", cfg.Auth.AdminUsername)
	cfg.Auth.AdminPassword = utils.EnvOrDefault("ADMIN_PASSWORD", cfg.Auth.AdminPassword)

	cfg.Redis.Address = utils.EnvOrDefault("REDIS_ADDR", cfg.Redis.Address)
	cfg.Redis.Password = utils.EnvOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = utils.EnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.StatsTTL = utils.EnvDuration("STATS_CACHE_TTL", cfg.Redis.StatsTTL)

	cfg.Booking.AllocationRetries = utils.EnvInt("ALLOCATION_RETRIES", cfg.Booking.AllocationRetries)
	cfg.Booking.EnforceDateOrder = utils.EnvBool("ENFORCE_DATE_ORDER", cfg.Booking.EnforceDateOrder)

	cfg.Jobs.AuditSchedule = utils.EnvOrDefault("AUDIT_SCHEDULE", cfg.Jobs.AuditSchedule)
	if strings.EqualFold(cfg.Jobs.AuditSchedule, "off") {
		cfg.Jobs.AuditSchedule = ""
	}

	cfg.Logging.Level = utils.EnvOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = utils.EnvOrDefault("LOG_FORMAT", cfg.Logging.Format)
}

func (c Config) Validate() error {
	var problems []string
	if c.Server.Port == "" {
		problems = append(problems, "server.port is required")
	}
	if c.Database.URL == "" && c.Database.Name == "" {
		problems = append(problems, "database.name or database.url is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		problems = append(problems, "database.max_open_conns must be positive")
	}
	if c.Booking.AllocationRetries <= 0 {
		problems = append(problems, "booking.allocation_retries must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
