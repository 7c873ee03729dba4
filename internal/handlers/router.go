package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/cache"
	"github.com/SAP-F-2025/interview-prep-service/internal/middleware"
	"github.com/SAP-F-2025/interview-prep-service/internal/observability"
	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the HTTP surface.
type Dependencies struct {
	Services services.ServiceManager
	Store    Pinger
	Verifier middleware.Verifier
	Counter  cache.Counter

	RateLimitMax    int
	RateLimitWindow time.Duration

	Logger utils.Logger
	Debug  bool
}

type HandlerManager struct {
	sessionHandler   *SessionHandler
	questionHandler  *QuestionHandler
	analyticsHandler *AnalyticsHandler
	deps             Dependencies
}

func NewHandlerManager(deps Dependencies) *HandlerManager {
	sm := deps.Services
	return &HandlerManager{
		sessionHandler:   NewSessionHandler(sm.Session(), sm.ImportExport(), deps.Logger, deps.Debug),
		questionHandler:  NewQuestionHandler(sm.Question(), sm.ImportExport(), deps.Logger, deps.Debug),
		analyticsHandler: NewAnalyticsHandler(sm.Analytics(), deps.Logger, deps.Debug),
		deps:             deps,
	}
}

// NewRouter builds a gin engine with the shared middleware and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.ContextLogger(deps.Logger),
		utils.LoggerMiddleware(deps.Logger),
		observability.Middleware(),
	)
	NewHandlerManager(deps).SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", observability.Handler())

	limit := func(scope string) gin.HandlerFunc {
		if hm.deps.Counter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(hm.deps.Counter, scope, hm.deps.RateLimitMax, hm.deps.RateLimitWindow, hm.deps.Logger)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(hm.deps.Verifier, hm.deps.Logger))
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", limit("start"), hm.sessionHandler.StartSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:token", hm.sessionHandler.GetSession)
			sessions.POST("/:token/answers", limit("answer"), hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:token/complete", hm.sessionHandler.CompleteSession)
			sessions.GET("/:token/report", hm.sessionHandler.ExportReport)
		}

		v1.GET("/analytics", hm.analyticsHandler.GetAnalytics)

		// Question definitions carry answers, so the bank is admin only.
		questions := v1.Group("/questions", middleware.RequireRole(middleware.RoleAdmin))
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
		}
	}
}

// HealthCheck reports the service and store status
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if hm.deps.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hm.deps.Store.Ping(ctx); err != nil {
			utils.GetLoggerFromContext(c, hm.deps.Logger).Warn("Health check failed", "error", err)
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "interview-prep-service",
	})
}
