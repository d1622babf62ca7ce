package main

import (
	"hotelops/config"
	"hotelops/di"
	"hotelops/helper"
	"hotelops/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Hotel Operations API
// @version 1.0
// @description Bookings, rooms, room service orders, maintenance and guest inquiries.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Runner(cfg, helper.MigrateUp); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
	}

	di.InitializeService().Serve()
}
