package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"hotelops/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvFileAndDefaults(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9090\nAPP_RATE_LIMITER_MAX_REQUESTS=30\n"), 0o600))

	t.Cleanup(func() { _ = os.Unsetenv("APP_RATE_LIMITER_MAX_REQUESTS") })
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := config.Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port, "process environment wins")
	assert.Equal(t, 30, cfg.App.RateLimiter.MaxRequests)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "hotelops.booking", cfg.Kafka.Topics.Booking)
	assert.Equal(t, "disable", cfg.DB.Postgres.Write.SSLMode)
	assert.Equal(t, 5, cfg.DB.Postgres.MaxRetry)
}

func TestLoad_MissingFileFallsBackToEnvironment(t *testing.T) {
	t.Setenv("APP_APP_NAME", "frontdesk")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", cfg.App.Name)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("APP_RATE_LIMITER_MAX_REQUESTS", "lots")

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.JWT.AccessSecret = "access"
		cfg.JWT.RefreshSecret = "refresh"
		cfg.DB.Postgres.Write.Host = "db-primary"
		cfg.DB.Postgres.Read.Host = "db-replica"

		return cfg
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
	assert.ErrorContains(t, cfg.Validate(), "must differ")

	cfg = valid()
	cfg.Kafka.Enable = true
	assert.ErrorContains(t, cfg.Validate(), "KAFKA_BROKERS")

	err := (&config.Config{}).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET")
	assert.ErrorContains(t, err, "DB_POSTGRES_WRITE_HOST")
}
