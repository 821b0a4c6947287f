package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beejsebazaar/advisor/internal/infra/config"
	"github.com/beejsebazaar/advisor/internal/infra/ratelimit"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiter ratelimit.Limiter) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        newEngine(cfg.HTTP, handler, limiter),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg config.HTTPConfig, handler *Handler, limiter ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := handler.logger
	router := gin.New()
	router.MaxMultipartMemory = handler.opts.MaxImageBytes + (1 << 20)
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(sessionMiddleware(handler.svc.Auth))
	{
		api.GET("/capabilities", handler.Capabilities)
		api.GET("/weather", handler.Weather)
		api.GET("/harvest-plans/crops", handler.HarvestCrops)

		structure := api.Group("/structure")
		structure.POST("/sections", handler.StructureSections)
		structure.POST("/tips", handler.StructureTips)
		structure.POST("/recommendation", handler.StructureRecommendation)
		structure.POST("/forecast", handler.StructureForecast)

		authGroup := api.Group("/auth")
		authGroup.GET("/sign-in", handler.SignIn)
		authGroup.GET("/sign-up", handler.SignUp)
		authGroup.GET("/callback", handler.Callback)
		authGroup.POST("/sign-out", handler.SignOut)
		authGroup.GET("/session", handler.Session)
	}

	// Actions that call an upstream service are rate limited and guarded
	// against duplicate submits.
	actions := api.Group("")
	actions.Use(rateLimitMiddleware(limiter, logger))
	if cfg.InFlightGuard {
		actions.Use(newInFlightGuard().middleware())
	}
	{
		actions.POST("/crop-plans", handler.SuggestCropPlan)
		actions.POST("/best-practices", handler.BestPractices)
		actions.POST("/resource-optimizations", handler.OptimizeResources)
		actions.POST("/smart-tips", handler.SmartTips)
		actions.POST("/crop-alerts", handler.CropAlert)
		actions.POST("/health-checks", handler.HealthCheck)
		actions.POST("/disease-guides", handler.DiseaseGuide)
		actions.POST("/harvest-plans", handler.HarvestPlan)
		actions.POST("/contact", handler.Contact)
	}

	return router
}
