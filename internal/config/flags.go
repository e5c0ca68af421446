package config

import (
	"flag"
	"os"
	"time"

	"github.com/krsbot-dev/krsbot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database DSN (postgres:// or a SQLite file path)
//	-o string   owner id stamped on managed accounts
//	-k string   base64 encryption key
//	-t int      portal request timeout, seconds
//	-p int      study program id
//	-l int      term level
//	-e string   enrollment transaction hash
//	-r string   drop transaction hash
//	-n int      max accounts the batch runner works in parallel
//	-v string   log level (debug, info, warn, error)
//
// The less operational settings (base URLs, read hashes, S3 block) are
// reachable through the JSON file and environment only.
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-o", "-k", "-t", "-p", "-l", "-e", "-r", "-n", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.OwnerID, "o", config.OwnerID, "owner id")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "base64 encryption key")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "portal request timeout (in seconds)")

	fs.IntVar(&config.StudyProgramID, "p", config.StudyProgramID, "study program id")
	fs.IntVar(&config.TermLevel, "l", config.TermLevel, "term level")
	fs.StringVar(&config.EnrollmentHash, "e", config.EnrollmentHash, "enrollment transaction hash")
	fs.StringVar(&config.DropHash, "r", config.DropHash, "drop transaction hash")
	fs.IntVar(&config.RunnerConcurrency, "n", config.RunnerConcurrency, "max accounts processed in parallel")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
