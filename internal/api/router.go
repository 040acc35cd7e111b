package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wonny/tickernews/internal/api/handlers"
	"github.com/wonny/tickernews/internal/api/middleware"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/domain/quote"
	"github.com/wonny/tickernews/internal/pkg/config"
	"github.com/wonny/tickernews/internal/pkg/health"
	"github.com/wonny/tickernews/internal/pkg/logger"
)

// Dependencies services and stores the handlers are built on
type Dependencies struct {
	News      handlers.NewsService
	Quotes    quote.Provider
	Store     health.Checker
	FetchLogs news.FetchLogRepository
	Schedule  handlers.ScheduleSource
	Broker    handlers.Pinger // optional
}

// Router holds all dependencies for API routing
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	healthHandler    *handlers.HealthHandler
	newsHandler      *handlers.NewsHandler
	stockHandler     *handlers.StockHandler
	refresherHandler *handlers.RefresherHandler
}

// NewRouter creates a new API router with all dependencies
func NewRouter(cfg *config.Config, deps Dependencies, version string) *Router {
	gin.SetMode(cfg.Server.Mode)

	router := &Router{
		engine:           gin.New(),
		config:           cfg,
		healthHandler:    handlers.NewHealthHandler(deps.Store, deps.Broker, version),
		newsHandler:      handlers.NewNewsHandler(deps.News),
		stockHandler:     handlers.NewStockHandler(deps.Quotes),
		refresherHandler: handlers.NewRefresherHandler(deps.FetchLogs, deps.Schedule),
	}

	router.setupMiddlewares()
	router.setupRoutes()

	return router
}

// setupMiddlewares configures all global middlewares
func (r *Router) setupMiddlewares() {
	// Recovery middleware (must be first)
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	loggingCfg := middleware.LoggingConfig{
		SkipPaths: []string{"/health", "/health/ready"},
	}
	if r.config.Logging.FileEnabled {
		accessLogger := logger.NewAccessLogger(
			r.config.Logging.FilePath,
			r.config.Logging.RotationSize,
			r.config.Logging.RetentionDays,
		)
		loggingCfg.AccessLogger = &accessLogger
	}
	r.engine.Use(middleware.Logging(loggingCfg))

	r.engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Ticker News API"})
	})

	// Health checks (no /api prefix)
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/health/ready", r.healthHandler.Ready)

	api := r.engine.Group("/api")
	{
		api.GET("/health", r.healthHandler.Detailed)

		api.GET("/tickers", r.newsHandler.ListTickers)
		api.GET("/news/:ticker", r.newsHandler.GetNews)

		stock := api.Group("/stock")
		{
			stock.GET("/:ticker", r.stockHandler.GetQuote)
			stock.GET("/:ticker/history", r.stockHandler.GetHistory)
		}

		refresher := api.Group("/refresher")
		{
			refresher.GET("/logs", r.refresherHandler.ListLogs)
			refresher.GET("/schedule", r.refresherHandler.GetSchedule)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
