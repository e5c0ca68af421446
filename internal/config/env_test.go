package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_OverlaysSetVariables(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env:env@db/krsbot")
	t.Setenv("ENCRYPTION_PASSPHRASE", "hunter2")
	t.Setenv("ENCRYPTION_SALT", "sea salt")
	t.Setenv("REQUEST_TIMEOUT", "15s")
	t.Setenv("STUDY_PROGRAM_ID", "303")
	t.Setenv("RUNNER_CONCURRENCY", "4")
	t.Setenv("S3_BUCKET", "krs-exports")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "postgres://env:env@db/krsbot", cfg.DatabaseDSN)
	assert.Equal(t, "hunter2", cfg.EncryptionPassphrase)
	assert.Equal(t, "sea salt", cfg.EncryptionSalt)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 303, cfg.StudyProgramID)
	assert.Equal(t, 4, cfg.RunnerConcurrency)
	assert.Equal(t, "krs-exports", cfg.S3Bucket)

	// Untouched variables keep their defaults.
	assert.Equal(t, "local", cfg.OwnerID)
	assert.Equal(t, 2, cfg.TermLevel)
	assert.Equal(t, "info", cfg.LogLevel)
}

func Test_getEnvDuration(t *testing.T) {
	t.Setenv("KRSBOT_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("KRSBOT_TEST_DUR", time.Second))

	t.Setenv("KRSBOT_TEST_DUR", "45")
	assert.Equal(t, 45*time.Second, getEnvDuration("KRSBOT_TEST_DUR", time.Second))

	t.Setenv("KRSBOT_TEST_DUR", "not-a-duration")
	assert.Equal(t, time.Second, getEnvDuration("KRSBOT_TEST_DUR", time.Second))

	assert.Equal(t, time.Minute, getEnvDuration("KRSBOT_TEST_DUR_ABSENT", time.Minute))
}

func Test_getEnvInt(t *testing.T) {
	t.Setenv("KRSBOT_TEST_INT", "7")
	assert.Equal(t, 7, getEnvInt("KRSBOT_TEST_INT", 1))

	t.Setenv("KRSBOT_TEST_INT", "seven")
	assert.Equal(t, 1, getEnvInt("KRSBOT_TEST_INT", 1))
}
