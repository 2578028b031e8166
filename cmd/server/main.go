package main

import (
	"os"
	"os/signal"
	"syscall"

	"ictclub-portal/internal/adapters/http/middleware"
	"ictclub-portal/internal/adapters/http/routes"
	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	_ "ictclub-portal/docs" // Swagger docs
)

// @title MWECAU ICT Club Portal API
// @version 1.0
// @description Membership portal API for the MWECAU ICT Club

// @contact.name API Support
// @contact.email mwecauictclub@gmail.com

// @host ictclub.mwecau.ac.tz
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer config.CloseDatabase()

	// Auto migrate
	if err := models.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to auto migrate")
	}
	log.Info("✅ Database migration completed")

	// Seed departments and the initial admin
	if err := config.NewSeeder(db).Run(); err != nil {
		log.WithError(err).Warn("Database seeding failed")
	}

	// Optional redis cache
	rdb := config.ConnectRedis(cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ICT Club Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes, wiring repositories and services
	cronService := routes.Setup(app, db, rdb, cfg, log)

	// Daily reminders (08:30)
	if err := cronService.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start cron service")
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.WithFields(logrus.Fields{
		"port": cfg.Port,
		"mode": cfg.AppMode,
	}).Info("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	log.Info("Server stopped gracefully")
}
