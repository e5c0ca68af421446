// Package config handles configuration for the krsbot CLI: defaults, JSON
// overlay, .env / environment variables, and command-line flags, later
// sources winning.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for krsbot.
//
// Fields:
//   - DatabaseDSN: postgres:// / postgresql:// selects the Postgres backend,
//     anything else is treated as a SQLite file path.
//   - OwnerID: owning-user id stamped on accounts this process manages.
//   - EncryptionKey: base64 vault key (32 bytes decoded). Mutually exclusive
//     with EncryptionPassphrase/EncryptionSalt, which derive a key instead.
//   - AuthBaseURL / ServiceBaseURL: portal base hosts.
//   - RequestTimeout: the single fixed per-call portal timeout.
//   - StudyProgramID / TermLevel: catalog read parameters.
//   - EnrollmentHash / DropHash / DropFlag: opaque transaction tokens the
//     portal rotates; operator-supplied, never derived.
//   - AvailableHash / EnrolledHash / ScheduleHash / StatusHash: read-endpoint
//     path hashes, same nature as the transaction ones.
//   - RunnerConcurrency: max accounts the batch runner works in parallel.
//   - S3*: optional log-export target; export stays local-only until set.
type Config struct {
	DatabaseDSN string
	OwnerID     string

	EncryptionKey        string
	EncryptionPassphrase string
	EncryptionSalt       string

	AuthBaseURL    string
	ServiceBaseURL string
	RequestTimeout time.Duration

	StudyProgramID int
	TermLevel      int

	EnrollmentHash string
	DropHash       string
	DropFlag       string

	AvailableHash string
	EnrolledHash  string
	ScheduleHash  string
	StatusHash    string

	RunnerConcurrency int
	LogLevel          string

	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LoadDefaults populates Config with the currently observed portal values.
// The hash defaults go stale whenever the portal redeploys and are expected
// to be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "krsbot.db"
	c.OwnerID = "local"
	c.AuthBaseURL = "https://auth-v2.telkomuniversity.ac.id"
	c.ServiceBaseURL = "https://service-v2.telkomuniversity.ac.id"
	c.RequestTimeout = 30 * time.Second
	c.StudyProgramID = 117
	c.TermLevel = 2
	c.EnrollmentHash = "20f11ee4d4672f5dbf3b219c96b33c50f630819b"
	c.DropHash = "05d8af8b7a6a9b1a1a16be2841ec0152c8e6ec31"
	c.DropFlag = "1"
	c.AvailableHash = "d6c09f330d8af5c7d63f64d2c251498fbdfed81d"
	c.EnrolledHash = "87ec6ce42c5f860413f696957c33d9f3ee70acf2"
	c.ScheduleHash = "cd3ba337b4dbea0b0976f40e77cad6d5ab264b2e"
	c.StatusHash = "d5766829095ade253c73f309124ec702n2132344"
	c.RunnerConcurrency = 1
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (.env included), and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the startup invariants: a storage DSN, exactly one vault
// key source, and sane runner/timeout values. Violations are fatal; main
// prints the error and exits.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN must not be empty")
	}

	hasKey := c.EncryptionKey != ""
	hasPassphrase := c.EncryptionPassphrase != ""
	switch {
	case hasKey && hasPassphrase:
		return errors.New("encryption key and encryption passphrase are mutually exclusive, configure exactly one")
	case !hasKey && !hasPassphrase:
		return errors.New("no encryption key configured: set ENCRYPTION_KEY, or ENCRYPTION_PASSPHRASE together with ENCRYPTION_SALT")
	case hasPassphrase && c.EncryptionSalt == "":
		return errors.New("encryption passphrase requires ENCRYPTION_SALT")
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.RunnerConcurrency < 1 {
		return errors.New("runner concurrency must be at least 1")
	}
	return nil
}

// S3Configured reports whether the log-export upload target is fully set.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}
