package main

import (
	"context"
	"hotelops/config"
	"hotelops/helper"
	"hotelops/infras/otel"
	"hotelops/infras/postgres"
	hotelRepository "hotelops/internal/domains/hotel/repository"
	roomRepository "hotelops/internal/domains/room/repository"
	userRepository "hotelops/internal/domains/user/repository"
	"hotelops/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	db := postgres.New(cfg)
	otl := otel.New(cfg)

	seeder := helper.NewSeeder(
		hotelRepository.New(db, otl),
		roomRepository.New(db, otl),
		userRepository.New(db, otl),
	)

	err := seeder.Run(context.Background(), helper.SeedOptions{
		Workers:       cfg.Seed.Workers,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().Msg("Seeding completed")
}
