package main

import (
	"context"
	"log"
	"os"

	"github.com/krsbot-dev/krsbot/internal/buildinfo"
	"github.com/krsbot-dev/krsbot/internal/cli"
	"github.com/krsbot-dev/krsbot/internal/config"
	"github.com/krsbot-dev/krsbot/internal/logging"
	"github.com/krsbot-dev/krsbot/internal/repositories/repomanager"
	"github.com/krsbot-dev/krsbot/internal/vault"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewDefault(cfg.LogLevel)

	key, err := vault.KeyFromConfig(cfg.EncryptionKey, cfg.EncryptionPassphrase, cfg.EncryptionSalt)
	if err != nil {
		log.Fatalf("encryption key: %v", err)
	}
	cipher, err := vault.New(key)
	if err != nil {
		log.Fatalf("cipher init: %v", err)
	}

	manager, err := repomanager.New(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	defer func() {
		_ = manager.Close()
	}()

	app := cli.NewApp(cfg, logger, manager, cipher)
	app.Run(ctx)
}
