package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_RequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnv_MissingOne(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.NotContains(t, err.Error(), "DATABASE_URL")
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ES_INDEX", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsDevelopment(), "unset APP_ENV must not expose error details")
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.FrontendURLs)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("FRONTEND_URL", "https://admin.techlab.io, https://techlab.io")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"https://admin.techlab.io", "https://techlab.io"}, cfg.FrontendURLs)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestEnvIntDefault_Invalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	assert.Equal(t, 3000, EnvIntDefault("SERVER_PORT", 3000))
}

func TestFromEnv_DevelopmentOnlyWhenExplicit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/shop")
	t.Setenv("JWT_SECRET", "secret")

	for env, want := range map[string]bool{"": false, "staging": false, "Development": false, "development": true} {
		t.Setenv("APP_ENV", env)
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, want, cfg.IsDevelopment(), "APP_ENV=%q", env)
	}
}
