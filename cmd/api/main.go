package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/email"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Retail Pricing API
// @version         1.0
// @description     Multi-tenant retail backend: catalog pricing, expense allocation, receipts, invoicing and sales reporting.
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

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	taxRepo := repository.NewTaxRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	calcRepo := repository.NewCalculationRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	reportRepo := repository.NewReportRepository(db)

	tenantService := service.NewTenantService(tenantRepo)
	userService := service.NewUserService(userRepo, tenantRepo)
	taxService := service.NewTaxService(taxRepo)
	categoryService := service.NewCategoryService(categoryRepo, txManager)
	itemService := service.NewItemService(itemRepo, taxRepo)
	calcService := service.NewCalculationService(calcRepo, itemRepo, taxRepo, txManager)
	receiptService := service.NewReceiptService(receiptRepo, itemRepo, taxRepo, txManager)
	customerService := service.NewCustomerService(customerRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, taxRepo, txManager)
	warehouseService := service.NewWarehouseService(warehouseRepo, itemRepo)
	workOrderService := service.NewWorkOrderService(workOrderRepo, warehouseRepo, itemRepo, taxRepo, txManager)
	currencyService := service.NewCurrencyService(currencyRepo)
	reportService := service.NewReportService(reportRepo)

	// Initialize Handlers
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	taxHandler := handler.NewTaxHandler(taxService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	itemHandler := handler.NewItemHandler(itemService)
	calcHandler := handler.NewCalculationHandler(calcService)
	receiptHandler := handler.NewReceiptHandler(receiptService, wsHub)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService)
	currencyHandler := handler.NewCurrencyHandler(currencyService)
	reportHandler := handler.NewReportHandler(reportService)

	// Daily sales summary mailer
	if os.Getenv("SMTP_HOST") != "" {
		smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if smtpPort == 0 {
			smtpPort = 587
		}
		emailService := email.NewService(email.Config{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     smtpPort,
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			FromName:     os.Getenv("SMTP_FROM_NAME"),
			FromEmail:    os.Getenv("SMTP_FROM_EMAIL"),
		})
		summaryScheduler := mailer.NewScheduler(emailService, reportService, tenantRepo, 24*time.Hour)
		go summaryScheduler.Run(context.Background())
		log.Println("Daily sales summary mailer started.")
	}

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
	tenantHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	taxHandler.RegisterRoutes(router.Group(""))
	categoryHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	calcHandler.RegisterRoutes(router.Group(""))
	receiptHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	warehouseHandler.RegisterRoutes(router.Group(""))
	workOrderHandler.RegisterRoutes(router.Group(""))
	currencyHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
