package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/HamzaArc/atlas-flow-sub000/internal/api"
	"github.com/HamzaArc/atlas-flow-sub000/internal/config"
	"github.com/HamzaArc/atlas-flow-sub000/internal/db"
	"github.com/HamzaArc/atlas-flow-sub000/internal/migrations"
	"github.com/HamzaArc/atlas-flow-sub000/internal/seed"
	"github.com/HamzaArc/atlas-flow-sub000/internal/store"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg)
	defer log.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database.DB, cfg.MigrationsDir); err != nil {
		log.Fatal("failed to run database migrations", zap.Error(err))
	}

	st := store.New(database)

	if cfg.IsDev() {
		stats, err := seed.Run(context.Background(), st, cfg.BaseCurrency)
		if err != nil {
			log.Fatal("failed to seed development data", zap.Error(err))
		}
		log.Info("development seed complete",
			zap.Int("rates", stats.Rates),
			zap.Int("tariffs", stats.Tariffs),
		)
	}

	srv := api.NewServer(st, log, cfg.BaseCurrency)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("baseCurrency", cfg.BaseCurrency))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	if cfg.IsDev() {
		log, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return log
}
