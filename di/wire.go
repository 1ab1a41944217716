//go:build wireinject
// +build wireinject

package di

import (
	"eventhub/config"
	"eventhub/infras/jwt"
	"eventhub/infras/kafka"
	"eventhub/infras/otel"
	"eventhub/infras/postgres"
	"eventhub/infras/redis"
	"eventhub/infras/s3"
	"eventhub/infras/storage"
	"eventhub/internal/policy"
	"eventhub/permissions"
	"eventhub/shared/cache"
	"eventhub/shared/event"
	"eventhub/shared/transaction"
	"eventhub/transport/http"
	"eventhub/transport/http/middleware"
	"eventhub/transport/http/router"

	adminService "eventhub/internal/domains/admin/service"
	authService "eventhub/internal/domains/auth/service"
	bookingRepository "eventhub/internal/domains/booking/repository"
	bookingService "eventhub/internal/domains/booking/service"
	categoryRepository "eventhub/internal/domains/category/repository"
	categoryService "eventhub/internal/domains/category/service"
	productRepository "eventhub/internal/domains/product/repository"
	productService "eventhub/internal/domains/product/service"
	userRepository "eventhub/internal/domains/user/repository"
	userService "eventhub/internal/domains/user/service"
	vendorRepository "eventhub/internal/domains/vendors/repository"
	vendorService "eventhub/internal/domains/vendors/service"

	adminHandler "eventhub/internal/handlers/admin"
	authHandler "eventhub/internal/handlers/auth"
	bookingHandler "eventhub/internal/handlers/booking"
	categoryHandler "eventhub/internal/handlers/category"
	productHandler "eventhub/internal/handlers/product"
	userHandler "eventhub/internal/handlers/user"
	vendorHandler "eventhub/internal/handlers/vendors"

	"github.com/google/wire"
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
	storage.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	event.New,
	transaction.New,
	policy.New,
)

var repositories = wire.NewSet(
	userRepository.New,
	vendorRepository.New,
	productRepository.New,
	bookingRepository.New,
	categoryRepository.New,
	wire.Struct(new(vendorService.Repositories), "*"),
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	vendorService.New,
	productService.New,
	bookingService.New,
	categoryService.New,
	adminService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	vendorHandler.New,
	productHandler.New,
	bookingHandler.New,
	categoryHandler.New,
	adminHandler.New,
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
