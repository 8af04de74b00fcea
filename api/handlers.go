package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-job-matcher/internal/logger"
	"github.com/gcbaptista/go-job-matcher/services"
)

// API holds dependencies for API handlers: the matcher and where candidates come from.
type API struct {
	matcher    services.Matcher
	candidates services.CandidateSource
	logger     *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(matcher services.Matcher, candidates services.CandidateSource, log *zap.Logger) *API {
	return &API{
		matcher:    matcher,
		candidates: candidates,
		logger:     logger.OrNop(log),
	}
}

// RouterOptions configures the middleware stack installed by NewRouter.
type RouterOptions struct {
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewRouter builds a gin engine with the standard middleware and all matcher routes.
func NewRouter(matcher services.Matcher, candidates services.CandidateSource, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(opts.Logger))
	router.Use(CORSMiddleware())
	if opts.MaxUploadBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(opts.MaxUploadBytes))
	}

	SetupRoutes(router, matcher, candidates, opts.Logger)
	return router
}

// SetupRoutes defines all the API routes for the matcher.
func SetupRoutes(router gin.IRouter, matcher services.Matcher, candidates services.CandidateSource, log *zap.Logger) {
	apiHandler := NewAPI(matcher, candidates, log)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", apiHandler.GetMetricsHandler)

	router.POST("/match_vaga", apiHandler.MatchDescriptionHandler) // Single free-text job
	router.POST("/match_vagas", apiHandler.MatchJobsHandler)       // Uploaded jobs document
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "matching API active",
	})
}

// GetMetricsHandler returns matching performance metrics
func (api *API) GetMetricsHandler(c *gin.Context) {
	settings := api.matcher.Settings()
	c.JSON(http.StatusOK, gin.H{
		"metrics":  api.matcher.Metrics(),
		"top_k":    settings.TopK,
		"strategy": settings.Strategy,
		"workers":  settings.Workers,
	})
}
