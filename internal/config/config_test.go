package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_MAX_OPEN_CONNS", "HTTP_PORT", "NOTIFY_WORKERS", "JWT_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "127.0.0.1", cfg.DBHost)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 2, cfg.NotifyWorkers)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_MIGRATE", "true")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("NOTIFY_WORKERS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.True(t, cfg.DBMigrate)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2, cfg.NotifyWorkers)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true&loc=Local", cfg.DSN())
}
