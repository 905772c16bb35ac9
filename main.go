package main

import (
	"chainlearn/config"
	authControllers "chainlearn/controllers/auth"
	courseControllers "chainlearn/controllers/course"
	hintControllers "chainlearn/controllers/hint"
	"chainlearn/database"
	"chainlearn/hint"
	"chainlearn/ledger"
	authRoutes "chainlearn/routers/authRoutes"
	courseRoutes "chainlearn/routers/courseRoutes"
	supportRoutes "chainlearn/routers/supportRoutes"
	userRoutes "chainlearn/routers/userRoutes"
	courseService "chainlearn/services/course"
	"chainlearn/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Clients for the on-chain gateway and the hint assistant
	ledgerClient := ledger.NewClient(
		config.AppConfig.LedgerGatewayURL,
		time.Duration(config.AppConfig.LedgerConfirmTimeout)*time.Second,
		time.Duration(config.AppConfig.LedgerPollInterval)*time.Second,
	)
	hintClient := hint.NewClient(
		config.AppConfig.HintApiURL,
		config.AppConfig.HintApiKey,
		config.AppConfig.HintModel,
		config.AppConfig.HintMaxTurns,
	)

	// Core enrollment and progress services
	store := courseService.NewGormStore(database.Database.Db)
	sessions := courseService.NewSessionState(store)
	enrollManager := courseService.NewEnrollmentManager(store, ledgerClient, sessions)
	tracker := courseService.NewProgressTracker(store, sessions)
	certTrigger := courseService.NewCertificateTrigger(store, ledgerClient, sessions)

	courseControllers.Setup(enrollManager, tracker, certTrigger, sessions, store)
	authControllers.Setup(ledgerClient)
	hintControllers.Setup(hintClient, store)

	// Sweeps payments that confirmed on-chain but never became enrollments
	utils.InitializeReconcileScheduler(enrollManager, store)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	supportRoutes.SetupSupportRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
