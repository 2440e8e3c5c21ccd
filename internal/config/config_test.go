package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{"PORT", "APP_ENV", "STORE", "DATABASE_URL", "JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES", "CORS_ALLOWED_ORIGINS", "BCRYPT_COST", "LOG_LEVEL"} {
		t.Setenv(key, values[key])
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL": "postgres://localhost/tasks",
		"JWT_SECRET":   "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "taskboard-api", cfg.JWTIssuer)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":                 "9000",
		"APP_ENV":              "Production",
		"STORE":                "memory",
		"JWT_SECRET":           "secret",
		"JWT_TTL_MINUTES":      "30",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example ,",
		"BCRYPT_COST":          "12",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"DATABASE_URL": "postgres://x"}},
		{"missing database url", map[string]string{"JWT_SECRET": "s"}},
		{"unknown store", map[string]string{"JWT_SECRET": "s", "STORE": "redis"}},
		{"bad bcrypt cost", map[string]string{"JWT_SECRET": "s", "STORE": "memory", "BCRYPT_COST": "99"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setEnv(t, tc.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
