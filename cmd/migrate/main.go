package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ForgeStore/internal/config"
	"ForgeStore/internal/migrate"
	"ForgeStore/pkg/kit"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|validate")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := kit.NewLogger("migrate", cfg.App.LogLevel).With(zap.String("cmd", *cmd))
	defer func() { _ = log.Sync() }()

	if *cmd == "validate" {
		if err := migrate.Validate(); err != nil {
			log.Fatal("migration validation failed", zap.Error(err))
		}
		log.Info("migration validation passed")
		return
	}

	if cfg.DB.DSN == "" {
		log.Fatal("FORGESTORE_DB_DSN is required")
	}

	ctx := context.Background()
	db, err := kit.OpenPostgres(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if err := migrate.Run(ctx, db, *cmd, flag.Args()...); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration done")
}
