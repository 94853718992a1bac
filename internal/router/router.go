package router

import (
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/handler"
	"github.com/codeadapt/learn-gateway/internal/middleware"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Learner *handler.LearnerHandler
	Events  *handler.EventsHandler
	Profile *handler.ProfileHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// limiter may be nil to disable rate limiting.
func SetupRouter(
	authService *service.AuthService,
	limiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli(brotli.DefaultCompression, middleware.DefaultBrotliMinLength))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	if handlers.System != nil {
		router.GET("/api/v1/system/status", middleware.NoStore(), handlers.System.Status)
	}

	learnerAuth := []gin.HandlerFunc{middleware.RequireLearnerJWT(authService)}
	if limiter != nil {
		learnerAuth = append(learnerAuth, limiter.Middleware())
	}

	// ─── 1. Catalog Group (JWT, cacheable) ─────────────────────────────
	catalogAPI := router.Group("/api/v1")
	catalogAPI.Use(learnerAuth...)
	{
		catalogAPI.GET("/me", middleware.NoStore(), handlers.Profile.Me)
		catalogAPI.GET("/courses", middleware.CacheControl(300), handlers.Catalog.ListCourses)
		catalogAPI.GET("/courses/:course_id/topics", middleware.CacheControl(60), handlers.Catalog.ListTopics)
	}

	// ─── 2. Learn Group (JWT, session state) ───────────────────────────
	learnAPI := router.Group("/api/v1/learn/courses/:course_id")
	learnAPI.Use(learnerAuth...)
	learnAPI.Use(middleware.NoStore())
	{
		learnAPI.GET("/session", handlers.Learner.GetSession)
		learnAPI.DELETE("/session", handlers.Learner.CloseSession)
		learnAPI.PUT("/topics/:topic_id", handlers.Learner.OpenTopic)
		learnAPI.POST("/select", handlers.Learner.SelectTopic)
		learnAPI.POST("/answers", handlers.Learner.SelectAnswer)
		learnAPI.POST("/submit", handlers.Learner.Submit)
		learnAPI.POST("/retry", handlers.Learner.Retry)
		learnAPI.POST("/navigate", handlers.Learner.Navigate)
		learnAPI.GET("/progress/:topic_id", handlers.Learner.GetProgress)
		if handlers.Events != nil {
			learnAPI.GET("/events", handlers.Events.StreamEvents)
		}
	}

	// ─── 3. WebSocket Group (JWT via ?token=) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerJWT(authService))
	{
		ws.GET("/learn/courses/:course_id/stream", handlers.WS.LearnStream)
	}

	return router
}
