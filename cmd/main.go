package main

import (
	"net/http"

	"parts-service/internal/analog"
	"parts-service/internal/catalog"
	"parts-service/internal/compat"
	"parts-service/internal/handler"
	mid "parts-service/internal/middleware"
	"parts-service/internal/moderation"
	"parts-service/internal/pricing"
	"parts-service/internal/search"
	"parts-service/pkg/config"
	"parts-service/pkg/database"
	"parts-service/pkg/jwtutil"
	"parts-service/pkg/logger"
	"parts-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (godotenv picks up an optional .env inside Load)
	appConfig, err := config.Load("parts-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting parts-service", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")
	db := database.GetDB()

	// Core components
	parts := catalog.NewStore(db)
	graph := analog.NewGraph(db)
	index := compat.NewIndex(db)
	policy := pricing.NewPolicy(appConfig.Pricing.DefaultMarkupPercent)
	workflow := moderation.NewWorkflow(db, graph, index, parts, log)
	resolver := search.NewResolver(parts, graph, policy)

	// Handlers
	partHandler := handler.NewPartHandler(parts, graph, index, policy)
	searchHandler := handler.NewSearchHandler(resolver)
	suggestionHandler := handler.NewSuggestionHandler(workflow)
	analogAdminHandler := handler.NewAnalogAdminHandler(graph, index)
	vehicleHandler := handler.NewVehicleHandler(db)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(mid.ViewerMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Part API routes - open to every viewer, prices transformed per role
	partAPI := e.Group("/api/parts")
	partAPI.GET("/:id", partHandler.GetPart)
	partAPI.GET("/:id/analogs", partHandler.GetAnalogs)
	partAPI.GET("/:id/compatibilities", partHandler.GetCompatibilities)

	e.GET("/api/search", searchHandler.Search)

	// Vehicle reference routes
	catalogAPI := e.Group("/api/catalog")
	catalogAPI.GET("/brands", vehicleHandler.ListBrands)
	catalogAPI.GET("/brands/:id/models", vehicleHandler.ListModels)
	catalogAPI.GET("/models/:id/engines", vehicleHandler.ListEngines)

	// Suggestion routes - submissions need an authenticated user
	e.POST("/api/suggestions", suggestionHandler.Submit, mid.RequireAuthenticated)

	// Moderation and edge management routes - privileged viewers only
	adminAPI := e.Group("/api/admin", mid.RequirePrivileged)
	adminAPI.GET("/suggestions", suggestionHandler.List)
	adminAPI.POST("/suggestions/:id/approve", suggestionHandler.Approve)
	adminAPI.POST("/suggestions/:id/reject", suggestionHandler.Reject)
	adminAPI.POST("/analogs", analogAdminHandler.UpsertEdge)
	adminAPI.DELETE("/analogs/:source/:target", analogAdminHandler.RemoveEdge)
	adminAPI.POST("/compatibilities", analogAdminHandler.UpsertCompatibility)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
