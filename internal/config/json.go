package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/krsbot-dev/krsbot/internal/flagx"
	"github.com/krsbot-dev/krsbot/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the file can specify the timeout either as a string like
// "30s" or as integer nanoseconds. After parsing, set values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN string `json:"database_dsn"`
	OwnerID     string `json:"owner_id"`

	EncryptionKey        string `json:"encryption_key"`
	EncryptionPassphrase string `json:"encryption_passphrase"`
	EncryptionSalt       string `json:"encryption_salt"`

	AuthBaseURL    string         `json:"auth_base_url"`
	ServiceBaseURL string         `json:"service_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	StudyProgramID int `json:"study_program_id"`
	TermLevel      int `json:"term_level"`

	EnrollmentHash string `json:"enrollment_hash"`
	DropHash       string `json:"drop_hash"`
	DropFlag       string `json:"drop_flag"`

	AvailableHash string `json:"available_hash"`
	EnrolledHash  string `json:"enrolled_hash"`
	ScheduleHash  string `json:"schedule_hash"`
	StatusHash    string `json:"status_hash"`

	RunnerConcurrency int    `json:"runner_concurrency"`
	LogLevel          string `json:"log_level"`

	S3Bucket          string `json:"s3_bucket"`
	S3Region          string `json:"s3_region"`
	S3BaseEndpoint    string `json:"s3_base_endpoint"`
	S3AccessKeyID     string `json:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields actually present (non-zero) in the file override the current
// Config, so a partial file keeps the defaults for everything it omits.
// Panics on read or unmarshal errors; configuration problems are fatal.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.OwnerID, c.OwnerID)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.EncryptionPassphrase, c.EncryptionPassphrase)
	setString(&config.EncryptionSalt, c.EncryptionSalt)
	setString(&config.AuthBaseURL, c.AuthBaseURL)
	setString(&config.ServiceBaseURL, c.ServiceBaseURL)
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
	setInt(&config.StudyProgramID, c.StudyProgramID)
	setInt(&config.TermLevel, c.TermLevel)
	setString(&config.EnrollmentHash, c.EnrollmentHash)
	setString(&config.DropHash, c.DropHash)
	setString(&config.DropFlag, c.DropFlag)
	setString(&config.AvailableHash, c.AvailableHash)
	setString(&config.EnrolledHash, c.EnrolledHash)
	setString(&config.ScheduleHash, c.ScheduleHash)
	setString(&config.StatusHash, c.StatusHash)
	setInt(&config.RunnerConcurrency, c.RunnerConcurrency)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKeyID, c.S3AccessKeyID)
	setString(&config.S3SecretAccessKey, c.S3SecretAccessKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
