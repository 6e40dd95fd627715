package main

import (
	"context"
	"net/http"
	"time"

	"github.com/SearchIntel/getmyhousevalue-backend/internal/handlers"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/middleware"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/repositories"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/services"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/transformers"
	"github.com/SearchIntel/getmyhousevalue-backend/internal/validators"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/config"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/epc"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/landregistry"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/logger"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/metrics"
	"github.com/SearchIntel/getmyhousevalue-backend/pkg/tracing"

	"github.com/gin-gonic/gin"
)

const rateLimiterSweepInterval = time.Hour

// App represents the application structure
type App struct {
	Config          *config.Config
	Router          *gin.Engine
	PropertyHandler *handlers.PropertyHandler
	RateLimiter     *middleware.RateLimiter
	Server          *http.Server

	epcEnabled      bool
	stopBackground  context.CancelFunc
	shutdownTracing func(context.Context) error
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeMetrics()
	app.initializeTracing()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize OpenTelemetry; a broken exporter only costs us spans
func (a *App) initializeTracing() {
	shutdown, err := tracing.Setup(context.Background(), a.Config.Tracing)
	if err != nil {
		logger.GlobalLogger.Warnf("Tracing disabled: %v", err)
	}
	a.shutdownTracing = shutdown
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel

	a.RateLimiter = middleware.NewRateLimiter(middleware.PerMinute(a.Config.RateLimit.RequestsPerMinute), a.Config.RateLimit.Burst)
	go a.RateLimiter.Cleanup(ctx, rateLimiterSweepInterval)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	cfg := a.Config

	// upstream clients
	salesClient := landregistry.NewClient(cfg.LandRegistry.Endpoint)
	epcClient := epc.NewClient(cfg.EPC.Endpoint, cfg.EPC.User, cfg.EPC.Key)
	a.epcEnabled = epcClient.Enabled()
	if !a.epcEnabled {
		logger.GlobalLogger.Printf("EPC credentials not set; certificate enrichment is off")
	}

	// repositories
	salesRepo := repositories.NewSalesRepository(salesClient)
	certificateRepo := repositories.NewCertificateRepository(epcClient)

	// transformers
	postTrans := transformers.NewPostcodeTransformer()
	propTrans := transformers.NewPropertyTransformer(cfg.Search.DefaultCity)

	// validators
	propertyValidator := validators.NewPropertyValidator()

	// services
	searchService := services.NewPropertySearchService(salesRepo, certificateRepo, postTrans, propTrans, propertyValidator, services.Timeouts{
		SalesExact:   cfg.LandRegistry.ExactTimeout,
		SalesSector:  cfg.LandRegistry.SectorTimeout,
		Certificates: cfg.EPC.Timeout,
	})

	// handlers
	a.PropertyHandler = handlers.NewPropertyHandler(searchService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracing(ctx); err != nil {
			logger.GlobalLogger.Warnf("Tracing shutdown: %v", err)
		}
	}
}
