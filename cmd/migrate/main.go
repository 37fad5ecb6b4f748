package main

import (
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/infrastructure/config"
	"github.com/openbooks/ledger/internal/infrastructure/logger"
	"github.com/openbooks/ledger/internal/infrastructure/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := persistence.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migration complete", zap.String("driver", cfg.Database.Driver))
}
