package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": "s"})
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Zero(t, cfg.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.DrinkCacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.SlowQueryThreshold())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":      "s",
		"STORAGE_BACKEND": "postgres",
		"POSTGRES_HOST":   "db",
		"POSTGRES_DB":     "catalog",
		"KAFKA_BROKERS":   "k1:9092,k2:9092",
		"JWT_EXPIRY":      "1h",
		"DB_MAX_CONNS":    "7",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)

	pg := cfg.Postgres()
	assert.Equal(t, "postgres://drinks:drinks_secret@db:5432/catalog?sslmode=disable", pg.DSN())
	assert.Equal(t, int32(7), pg.MaxConns)
	assert.Equal(t, time.Hour, pg.MaxConnLifetime)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "HTTP_PORT": "70000"}},
		{"bad backend", map[string]string{"JWT_SECRET": "s", "STORAGE_BACKEND": "sqlite"}},
		{"rsa algorithm", map[string]string{"JWT_SECRET": "s", "JWT_ALGORITHM": "RS256"}},
		{"bcrypt cost", map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "2"}},
		{"sample rate", map[string]string{"JWT_SECRET": "s", "OTEL_SAMPLE_RATE": "1.5"}},
		{"not a number", map[string]string{"JWT_SECRET": "s", "HTTP_PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.env)
			assert.Error(t, err)
		})
	}
}
