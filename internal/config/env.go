package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first when present; godotenv never overrides
// variables that are already set, so the real environment wins over the file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.OwnerID = getEnv("OWNER_ID", config.OwnerID)
	config.EncryptionKey = getEnv("ENCRYPTION_KEY", config.EncryptionKey)
	config.EncryptionPassphrase = getEnv("ENCRYPTION_PASSPHRASE", config.EncryptionPassphrase)
	config.EncryptionSalt = getEnv("ENCRYPTION_SALT", config.EncryptionSalt)
	config.AuthBaseURL = getEnv("AUTH_BASE_URL", config.AuthBaseURL)
	config.ServiceBaseURL = getEnv("SERVICE_BASE_URL", config.ServiceBaseURL)
	config.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", config.RequestTimeout)
	config.StudyProgramID = getEnvInt("STUDY_PROGRAM_ID", config.StudyProgramID)
	config.TermLevel = getEnvInt("TERM_LEVEL", config.TermLevel)
	config.EnrollmentHash = getEnv("ENROLLMENT_HASH", config.EnrollmentHash)
	config.DropHash = getEnv("DROP_HASH", config.DropHash)
	config.DropFlag = getEnv("DROP_FLAG", config.DropFlag)
	config.AvailableHash = getEnv("AVAILABLE_HASH", config.AvailableHash)
	config.EnrolledHash = getEnv("ENROLLED_HASH", config.EnrolledHash)
	config.ScheduleHash = getEnv("SCHEDULE_HASH", config.ScheduleHash)
	config.StatusHash = getEnv("STATUS_HASH", config.StatusHash)
	config.RunnerConcurrency = getEnvInt("RUNNER_CONCURRENCY", config.RunnerConcurrency)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.S3Bucket = getEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", config.S3AccessKeyID)
	config.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", config.S3SecretAccessKey)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration accepts "30s"-style strings; bare integers are taken as
// seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
