package main

import (
	"hotelops/config"
	"hotelops/helper"
	"hotelops/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	if len(os.Args) < 2 {
		log.Fatal().Msg("migration action is required: up, down, step-up or drop")
	}

	action, err := helper.ParseMigrationAction(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, action); err != nil {
		log.Fatal().Err(err).Str("action", string(action)).Msg("migration failed")
	}
}
