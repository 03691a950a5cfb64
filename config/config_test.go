package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-desk/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLWithExpansion(t *testing.T) {
	t.Setenv("HOTEL_TEST_SECRET", "from-env")
	path := writeConfig(t, `
server:
  port: "9090"
  cors_origins: ["https://desk.example"]
database:
  name: hotel_test
  max_open_conns: 4
auth:
  jwt_secret: ${HOTEL_TEST_SECRET}
  token_ttl: 2h
redis:
  address: localhost:6379
  stats_ttl: 5s
booking:
  allocation_retries: 3
  enforce_date_order: true
jobs:
  audit_schedule: "@every 10m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://desk.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "hotel_test", cfg.Database.Name)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Redis.StatsTTL)
	assert.Equal(t, 3, cfg.Booking.AllocationRetries)
	assert.True(t, cfg.Booking.EnforceDateOrder)
	assert.Equal(t, "@every 10m", cfg.Jobs.AuditSchedule)
	// untouched sections keep defaults
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ENFORCE_DATE_ORDER", "true")
	t.Setenv("AUDIT_SCHEDULE", "off")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.True(t, cfg.Booking.EnforceDateOrder)
	assert.Empty(t, cfg.Jobs.AuditSchedule)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "booking:\n  allocation_retries: 0\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "allocation_retries")

	path = writeConfig(t, "server: [not, a, map]\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestResolveMySQLDSN(t *testing.T) {
	dsn, err := resolveMySQLDSN(DatabaseConfig{URL: "mysql://app:pw@db.internal/hotel"})
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(db.internal:3306)/hotel?charset=utf8mb4&clientFoundRows=true&loc=UTC&parseTime=True", dsn)

	dsn, err = resolveMySQLDSN(DatabaseConfig{User: "root", Password: "x", Host: "127.0.0.1", Port: "3307", Name: "hotel_db"})
	require.NoError(t, err)
	assert.Equal(t, "root:x@tcp(127.0.0.1:3307)/hotel_db?charset=utf8mb4&clientFoundRows=true&loc=UTC&parseTime=True", dsn)

	raw := "user:pw@tcp(localhost:3306)/hotel?parseTime=true"
	dsn, err = resolveMySQLDSN(DatabaseConfig{URL: raw})
	require.NoError(t, err)
	assert.Equal(t, raw, dsn)

	_, err = resolveMySQLDSN(DatabaseConfig{URL: "mysql://app:pw@db.internal/"})
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []any{&models.User{}, &models.Room{}, &models.Booking{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Room{}, "idx_rooms_type_booked"))
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(LoggingConfig{Level: "debug", Format: "text"}))
	assert.NotNil(t, NewLogger(LoggingConfig{Level: "bogus"}))
}
