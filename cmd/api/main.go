package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Construction Management API
// @version         1.0
// @description     Backend for construction project management: projects, suppliers, purchase orders, deliveries and budget tracking.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger.Setup()

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
		dbName = "postgres"
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

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	deliveryRepo := repository.NewDeliveryNoteRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceItemRepository(db)

	userService := service.NewUserService(userRepo)
	auditService := service.NewAuditService(db)
	budgetService := service.NewBudgetIntegrationService(expenseRepo, orderRepo, wsHub)
	supplierService := service.NewSupplierService(supplierRepo, auditRepo, txManager, wsHub)
	projectService := service.NewProjectService(projectRepo, auditRepo, txManager, wsHub)
	orderService := service.NewPurchaseOrderService(orderRepo, supplierRepo, auditRepo, txManager, budgetService, wsHub)
	deliveryService := service.NewDeliveryService(deliveryRepo, orderRepo, auditRepo, txManager, budgetService, wsHub)
	expenseService := service.NewExpenseService(expenseRepo)
	transactionService := service.NewTransactionService(transactionRepo, auditRepo, txManager, wsHub)
	priceService := service.NewPriceLibraryService(priceRepo, auditRepo, txManager, wsHub)
	currencyService := service.NewCurrencyService()

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	auditHandler := handler.NewAuditHandler(auditService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	projectHandler := handler.NewProjectHandler(projectService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	budgetHandler := handler.NewBudgetHandler(budgetService, expenseService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	priceHandler := handler.NewPriceLibraryHandler(priceService)
	currencyHandler := handler.NewCurrencyHandler(currencyService)

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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	supplierHandler.RegisterRoutes(router.Group(""))
	projectHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	deliveryHandler.RegisterRoutes(router.Group(""))
	budgetHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))
	priceHandler.RegisterRoutes(router.Group(""))
	currencyHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
