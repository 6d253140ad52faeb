package main

import (
	"context"
	"errors"
	"log"
	"os"

	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	dbpostgres "skill-bridge/internal/database/postgres"
)

func newLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
}

func connectDB(ctx context.Context, logger *log.Logger) (database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled() {
		return nil, errors.New("DB_HOST is not set")
	}
	return dbpostgres.Connect(ctx, cfg.Database, logger)
}
