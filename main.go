// @title Nexus Academy API
// @version 1.0
// @description Backend server for the Nexus Academy learning platform.

// @contact.name API Support
// @contact.email support@nexusacademy.dev

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"github.com/OmarCypha700/nexus-academy-backend/internal/app"
	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/configwatcher"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on startup even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if *migrateOnly {
		log.Println("Migration complete, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		logger.Log.Info("configuration reloaded", zap.String("mode", updated.Server.Mode))
	})

	application.Run()
}
