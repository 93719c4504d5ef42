package main

import (
	"context"
	"log"
	"os"
	"time"

	_ "sabitax/api/swagger" // swagger docs
	"sabitax/internal/database"
	"sabitax/internal/handler"
	"sabitax/internal/middleware"
	"sabitax/internal/reward"
	"sabitax/internal/service"
	"sabitax/internal/taxcalc"
	"sabitax/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           SabiTax API
// @version         1.0
// @description     Personal finance and tax compliance API for Nigerian freelancers and small businesses.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "sabitax"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Shared tax calculator, 2025 FIRS tables
	calculator := taxcalc.NewCalculator(taxcalc.DefaultConfig())

	// Set up dependencies (Service -> Handler)
	notificationService := service.NewNotificationService(db, wsHub)
	referralService := service.NewReferralService(db, reward.DefaultPolicy(), notificationService)
	authService := service.NewAuthService(db, referralService)
	userService := service.NewUserService(db, calculator)
	transactionService := service.NewTransactionService(db)
	taxService := service.NewTaxService(db, calculator, notificationService)
	subscriptionService := service.NewSubscriptionService(db, referralService)
	tinService := service.NewTINService(db, notificationService)
	bankService := service.NewBankService(db)

	// Background sweep for lapsed paid subscriptions
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			expired, err := subscriptionService.ExpireLapsed(context.Background())
			if err != nil {
				log.Printf("WARNING: subscription expiry sweep failed: %v", err)
				continue
			}
			if expired > 0 {
				log.Printf("Expired %d lapsed subscriptions", expired)
			}
		}
	}()

	// Daily filing-deadline reminders in the run-up to January 31st
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			sent, err := taxService.SendDeadlineReminders(context.Background())
			if err != nil {
				log.Printf("WARNING: deadline reminder sweep failed: %v", err)
				continue
			}
			if sent > 0 {
				log.Printf("Sent %d filing deadline reminders", sent)
			}
		}
	}()

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	taxHandler := handler.NewTaxHandler(taxService)
	referralHandler := handler.NewReferralHandler(referralService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	tinHandler := handler.NewTINHandler(tinService)
	bankHandler := handler.NewBankHandler(bankService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for notification push
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))
	taxHandler.RegisterRoutes(router.Group(""))
	referralHandler.RegisterRoutes(router.Group(""))
	subscriptionHandler.RegisterRoutes(router.Group(""))
	tinHandler.RegisterRoutes(router.Group(""))
	bankHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
