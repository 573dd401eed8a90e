package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_NAME", "pos")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, 6*time.Hour, cfg.Business.UTCOffset)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "postgres://postgres:@localhost:5432/pos?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsSecondOffset(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("BUSINESS_UTC_OFFSET", "6h30s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestBusinessLocation(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("BUSINESS_UTC_OFFSET", "-3h")

	cfg, err := config.Load()
	require.NoError(t, err)

	loc := cfg.BusinessLocation()
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -3*3600, offset)
}
