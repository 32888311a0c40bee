package main

import (
	"net/http"

	"pharmtrack/internal/api"
	"pharmtrack/internal/config"
	"pharmtrack/internal/database"
	"pharmtrack/internal/migrations"
	"pharmtrack/internal/seed"
	logx "pharmtrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(cfg.Environment)

	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.Run(db)

	handler := api.New(db)

	logx.Info().Str("port", cfg.HTTPPort).Msg("pharmacy tracker starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		logx.Fatal().Err(err).Msg("server error")
	}
}
