package main

import (
	"eventhub/config"
	"eventhub/di"
	"eventhub/helper"
	"eventhub/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

// @title Event Management System API
// @version 1.0
// @description Vendor marketplace and booking API for event services.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetOutput(cfg, os.Stdout)
	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
