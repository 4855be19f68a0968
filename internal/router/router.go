package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"businessathi/internal/handler"
	"businessathi/internal/middleware"
	"businessathi/internal/service"
)

// Options carries the HTTP-level settings of the router.
type Options struct {
	CORSOrigins []string
	// ExportRateLimit throttles the export endpoints, e.g. "10-M".
	ExportRateLimit string
	// Metrics is served at /metrics when non-nil.
	Metrics http.Handler
	Swagger bool
}

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Master  *handler.MasterHandler
	Export  *handler.ExportHandler
	Health  *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(opts Options, log zerolog.Logger, authSvc service.AuthService, h Handlers) (*gin.Engine, error) {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Protected routes - require valid JWT
	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authSvc))

	variant := protected.Group("/:variant")
	variant.GET("/invoices", h.Invoice.List)
	variant.GET("/invoices/ids", h.Invoice.IDs)
	variant.GET("/invoices/months", h.Invoice.Months)
	variant.GET("/invoices/customers", h.Invoice.Customers)
	variant.GET("/invoices/statistics", h.Invoice.Statistics)
	variant.GET("/customers", h.Master.Customers)
	variant.GET("/products", h.Master.Products)

	limit, err := middleware.RateLimit(opts.ExportRateLimit)
	if err != nil {
		return nil, err
	}
	exports := protected.Group("")
	exports.Use(limit)
	exports.POST("/invoices/export", h.Export.Invoices)
	exports.POST("/customers/export", h.Export.Customers)
	exports.POST("/products/export", h.Export.Products)

	return r, nil
}
