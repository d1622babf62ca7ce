//go:build wireinject
// +build wireinject

package di

import (
	"hotelops/config"
	"hotelops/infras/jwt"
	"hotelops/infras/kafka"
	"hotelops/infras/llm"
	"hotelops/infras/otel"
	"hotelops/infras/postgres"
	"hotelops/infras/redis"
	"hotelops/infras/s3"
	"hotelops/permissions"
	"hotelops/shared/cache"
	"hotelops/transport/http"
	"hotelops/transport/http/middleware"
	"hotelops/transport/http/router"

	"github.com/google/wire"

	authService "hotelops/internal/domains/auth/service"
	bookingRepository "hotelops/internal/domains/booking/repository"
	bookingService "hotelops/internal/domains/booking/service"
	hotelRepository "hotelops/internal/domains/hotel/repository"
	hotelService "hotelops/internal/domains/hotel/service"
	inquiryRepository "hotelops/internal/domains/inquiry/repository"
	inquiryService "hotelops/internal/domains/inquiry/service"
	maintenanceRepository "hotelops/internal/domains/maintenance/repository"
	maintenanceService "hotelops/internal/domains/maintenance/service"
	orderRepository "hotelops/internal/domains/order/repository"
	orderService "hotelops/internal/domains/order/service"
	roomRepository "hotelops/internal/domains/room/repository"
	roomService "hotelops/internal/domains/room/service"
	userRepository "hotelops/internal/domains/user/repository"
	userService "hotelops/internal/domains/user/service"
	authHandler "hotelops/internal/handlers/auth"
	bookingHandler "hotelops/internal/handlers/booking"
	hotelHandler "hotelops/internal/handlers/hotel"
	inquiryHandler "hotelops/internal/handlers/inquiry"
	maintenanceHandler "hotelops/internal/handlers/maintenance"
	orderHandler "hotelops/internal/handlers/order"
	roomHandler "hotelops/internal/handlers/room"
	userHandler "hotelops/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	llm.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	userRepository.New,
	hotelRepository.New,
	roomRepository.New,
	bookingRepository.New,
	orderRepository.New,
	maintenanceRepository.New,
	inquiryRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	hotelService.New,
	roomService.New,
	bookingService.New,
	orderService.New,
	maintenanceService.New,
	inquiryService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	hotelHandler.New,
	roomHandler.New,
	bookingHandler.New,
	orderHandler.New,
	maintenanceHandler.New,
	inquiryHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
