package main

import (
	"flag"
	"log"

	"vidquiz/internal/config"
	"vidquiz/internal/database"
	"vidquiz/internal/logger"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("path", "migrations", "directory holding the migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	if err := database.RunMigrations(cfg.GetDSN(), *path); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("path", *path))
}
