package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Procurement API
// @version         1.0
// @description     Construction procurement backend: sites, vendors, BOQs, indents, purchase orders and inward challans.
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

	// Permission middleware needs the DB for role -> permission lookups
	middleware.InitPermissionMiddleware(db)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	itemRepo := repository.NewItemRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	paymentTermRepo := repository.NewPaymentTermRepository(db)
	rentalCategoryRepo := repository.NewRentalCategoryRepository(db)
	manpowerRepo := repository.NewManpowerRepository(db)
	boqRepo := repository.NewBOQRepository(db)
	indentRepo := repository.NewIndentRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	challanRepo := repository.NewChallanRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	userService := service.NewUserService(userRepo, refreshTokenRepo, siteRepo, auditRepo)
	roleService := service.NewRoleService(db)
	auditService := service.NewAuditService(db)
	siteService := service.NewSiteService(siteRepo)
	itemService := service.NewItemService(itemRepo)
	vendorService := service.NewVendorService(vendorRepo, auditRepo, txManager)
	masterService := service.NewMasterService(paymentTermRepo, rentalCategoryRepo, manpowerRepo, siteRepo)
	boqService := service.NewBOQService(boqRepo, siteRepo, itemRepo, auditRepo, txManager)
	indentService := service.NewIndentService(indentRepo, siteRepo, itemRepo, auditRepo, txManager)
	poService := service.NewPurchaseOrderService(
		poRepo, siteRepo, vendorRepo, itemRepo, paymentTermRepo,
		indentRepo, boqRepo, auditRepo, txManager, wsHub,
	)
	challanService := service.NewChallanService(challanRepo, poRepo, auditRepo, txManager)
	statisticsService := service.NewStatisticsService(statsRepo)

	// Seed default roles and permissions on startup (idempotent)
	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Println("WARNING: Failed to seed roles and permissions:", err)
	}

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	auditHandler := handler.NewAuditHandler(auditService)
	siteHandler := handler.NewSiteHandler(siteService)
	itemHandler := handler.NewItemHandler(itemService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	masterHandler := handler.NewMasterHandler(masterService)
	boqHandler := handler.NewBOQHandler(boqService)
	indentHandler := handler.NewIndentHandler(indentService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	challanHandler := handler.NewChallanHandler(challanService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

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
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	roleHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	siteHandler.RegisterRoutes(root)
	itemHandler.RegisterRoutes(root)
	vendorHandler.RegisterRoutes(root)
	masterHandler.RegisterRoutes(root)
	boqHandler.RegisterRoutes(root)
	indentHandler.RegisterRoutes(root)
	poHandler.RegisterRoutes(root)
	challanHandler.RegisterRoutes(root)
	statisticsHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
