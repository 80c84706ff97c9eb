package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tekstilpro/proforma-api/internal/application/service"
	"github.com/tekstilpro/proforma-api/internal/config"
	"github.com/tekstilpro/proforma-api/internal/infrastructure/database"
	"github.com/tekstilpro/proforma-api/internal/infrastructure/repository"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/handler"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/routes"
	"github.com/tekstilpro/proforma-api/pkg/email"
	"github.com/tekstilpro/proforma-api/pkg/printer"
	"github.com/tekstilpro/proforma-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewProductionRequestRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	productRepo := repository.NewProductRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Purge expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Failed to purge expired idempotency keys: %v", err)
			}
		}
	}()

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.Company.Name,
		FromEmail:    cfg.SMTP.From,
	})

	// Initialize thermal printer
	thermalPrinter := printer.NewPrinterFromConfig(cfg.Printer.Enabled, cfg.Printer.Host, cfg.Printer.Port)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	quotationService := service.NewQuotationService(requestRepo, quoteRepo)
	manualInvoiceService := service.NewManualInvoiceService(requestRepo, quoteRepo, productRepo)
	productService := service.NewProductService(productRepo)
	dashboardService := service.NewDashboardService(requestRepo, quoteRepo, productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	documentService := service.NewDocumentService(requestRepo, quoteRepo, settingsRepo, emailService, thermalPrinter, cfg.Company)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Request:       handler.NewRequestHandler(quotationService),
		ManualInvoice: handler.NewManualInvoiceHandler(manualInvoiceService),
		Product:       handler.NewProductHandler(productService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Document:      handler.NewDocumentHandler(documentService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
