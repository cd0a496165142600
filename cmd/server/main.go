package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/voluntia/volunteerhub-api/internal/config"
	"github.com/voluntia/volunteerhub-api/internal/database"
	"github.com/voluntia/volunteerhub-api/internal/handlers"
	"github.com/voluntia/volunteerhub-api/internal/routes"
	"github.com/voluntia/volunteerhub-api/internal/services"
	"github.com/voluntia/volunteerhub-api/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	push := services.NewPushService(cfg.FCMServiceAccount, database.DB, logger)
	hub := ws.NewHub(logger)

	handlers.Init(database.DB, logger, push, hub)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlog.New())

	routes.Setup(app, hub)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
