package main

import (
	_ "billing/api/swagger" // swagger docs
	"billing/internal/database"
	"billing/internal/handler"
	"billing/internal/repository"
	"billing/internal/service"
	"billing/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           GST Billing API
// @version         1.0
// @description     Bilingual GST billing backend: routes, vendors, catalog items, bills and reports.
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
		dbName = "billing"
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

	if err := database.SeedAdmin(db); err != nil {
		log.Printf("WARNING: admin seeding failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	routeRepo := repository.NewRouteRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	itemRepo := repository.NewItemRepository(db)
	billRepo := repository.NewBillRepository(db)
	userRepo := repository.NewUserRepository(db)

	routeService := service.NewRouteService(routeRepo)
	vendorService := service.NewVendorService(vendorRepo, routeRepo)
	itemService := service.NewItemService(itemRepo)
	billService := service.NewBillService(billRepo, itemRepo, vendorRepo, txManager, wsHub)
	importService := service.NewImportService(routeRepo, vendorRepo, itemRepo, billRepo, txManager)
	summaryService := service.NewSummaryService(billRepo, itemRepo)
	authService := service.NewAuthService(userRepo)

	// Initialize Handlers
	routeHandler := handler.NewRouteHandler(routeService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	itemHandler := handler.NewItemHandler(itemService)
	billHandler := handler.NewBillHandler(billService)
	importHandler := handler.NewImportHandler(importService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	authHandler := handler.NewAuthHandler(authService)

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
		websocket.ServeWs(wsHub, c)
	})

	// Register API Routes
	routeHandler.RegisterRoutes(router.Group(""))
	vendorHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	billHandler.RegisterRoutes(router.Group(""))
	importHandler.RegisterRoutes(router.Group(""))
	summaryHandler.RegisterRoutes(router.Group(""))
	authHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
