package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tekstilpro/proforma-api/internal/config"
	domainRepo "github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/handler"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/middleware"
	"github.com/tekstilpro/proforma-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	Request       *handler.RequestHandler
	ManualInvoice *handler.ManualInvoiceHandler
	Product       *handler.ProductHandler
	Dashboard     *handler.DashboardHandler
	Settings      *handler.SettingsHandler
	Document      *handler.DocumentHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/auth/profile", h.Auth.Profile)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)

	// Dashboard
	protected.GET("/dashboard/stats", h.Dashboard.Stats)

	registerRequestRoutes(protected, h)
	registerManualInvoiceRoutes(protected, h, deps)
	registerProductRoutes(protected, h)
}

func registerRequestRoutes(protected *gin.RouterGroup, h *Handlers) {
	requests := protected.Group("/requests")
	{
		requests.GET("", h.Request.List)
		requests.POST("", h.Request.Create)
		requests.GET("/:id", h.Request.Get)
		requests.DELETE("/:id", h.Request.Delete)

		// Quotation workflow
		requests.POST("/:id/quote", h.Request.SaveQuote)
		requests.GET("/:id/quotes", h.Request.ListQuotes)
		requests.POST("/:id/revision", h.Request.RequestRevision)
		requests.POST("/:id/approve", h.Request.Approve)
		requests.POST("/:id/reject", h.Request.Reject)
		requests.POST("/:id/archive", h.Request.Archive)

		// Document export
		requests.GET("/:id/proforma", h.Document.Proforma)
		requests.GET("/:id/proforma/excel", h.Document.ExportExcel)
		requests.POST("/:id/proforma/print", h.Document.Print)
		requests.POST("/:id/proforma/email", h.Document.Email)
	}
}

func registerManualInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	manual := protected.Group("/manual-invoices")
	{
		manual.GET("/products", h.ManualInvoice.SearchProducts)
		// Creation uses idempotency middleware so a retry cannot
		// double-create the underlying request record
		manual.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.ManualInvoice.Create)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}
