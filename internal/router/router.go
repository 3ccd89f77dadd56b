package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-group-api/internal/handler"
	"study-group-api/internal/metrics"
	"study-group-api/internal/middleware"
	"study-group-api/internal/repository"
	"study-group-api/internal/service"
)

// Config holds the dependencies the router wires together
type Config struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Logger    *zap.Logger
	JWTSecret string
	BasePath  string
	Metrics   *metrics.Metrics
}

// Setup builds the gin engine with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS())
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Initialize repositories
	studyRepo := repository.NewStudyRepository(cfg.DB)
	membershipRepo := repository.NewMembershipRepository(cfg.DB)

	// Initialize services
	studyService := service.NewStudyService(studyRepo, cfg.Redis, cfg.Logger, cfg.Metrics)
	membershipService := service.NewMembershipService(membershipRepo, studyRepo, cfg.Logger, cfg.Metrics)

	// Initialize handlers
	studyHandler := handler.NewStudyHandler(studyService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// Health and metrics endpoints (no auth), at root and base path so
	// probes work with and without the ingress prefix
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(cfg.BasePath)
	{
		if cfg.BasePath != "" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
			api.GET("/metrics", gin.WrapH(promhttp.Handler()))
		}

		auth := middleware.Auth(cfg.JWTSecret)
		optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

		// Study directory and CRUD
		api.GET("", optionalAuth, studyHandler.SearchStudies)
		api.POST("", auth, studyHandler.CreateStudy)
		api.GET("/:studyId", optionalAuth, studyHandler.GetStudy)
		api.PUT("/:studyId", auth, studyHandler.UpdateStudy)
		api.DELETE("/:studyId", auth, studyHandler.DeleteStudy)

		// Membership lifecycle
		api.POST("/:studyId/members", auth, membershipHandler.RequestJoin)
		api.GET("/:studyId/members", membershipHandler.GetActiveMembers)
		api.GET("/:studyId/members/pending", auth, membershipHandler.GetPendingRequests)
		api.PUT("/:studyId/members/:userId", auth, membershipHandler.DecideMembership)
		api.PATCH("/:studyId/members/me", auth, membershipHandler.UpdateGreeting)
		api.DELETE("/:studyId/members/:userId", auth, membershipHandler.CancelMembership)
	}

	return r
}
