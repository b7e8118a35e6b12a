package config

import (
	"testing"
	"time"

	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/safespender")
	t.Setenv("AUTH0_DOMAIN", "example.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.safespender.test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, projection.SavingsPolicyApproximate, cfg.SavingsPolicy)
	assert.Equal(t, 15*time.Minute, cfg.Export.URLTTL)
	assert.Equal(t, 10, cfg.Export.RateLimitPerMin)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("SAVINGS_FREQUENCY_POLICY", "monthly-only")
	t.Setenv("EXPORT_URL_TTL", "1h")
	t.Setenv("EXPORT_RATE_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("ENV", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, projection.SavingsPolicyMonthlyOnly, cfg.ProjectionOptions().SavingsPolicy)
	assert.Equal(t, time.Hour, cfg.Export.URLTTL)
	assert.Equal(t, 3, cfg.Export.RateLimitPerMin)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SAVINGS_FREQUENCY_POLICY", "weekly"},
		{"AUTO_MIGRATE", "maybe"},
		{"EXPORT_URL_TTL", "soon"},
		{"EXPORT_RATE_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.ErrorContains(t, err, tt.key)
		})
	}
}
