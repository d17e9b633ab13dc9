package router

import (
	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/config"
	"github.com/qconnect/clinic-api/internal/handler"
	"github.com/qconnect/clinic-api/internal/middleware"
	"github.com/qconnect/clinic-api/internal/service"
)

type Router struct {
	authHandler        *handler.AuthHandler
	userHandler        *handler.UserHandler
	doctorHandler      *handler.DoctorHandler
	queueHandler       *handler.QueueHandler
	appointmentHandler *handler.AppointmentHandler
	uploadHandler      *handler.UploadHandler
	emailHandler       *handler.EmailHandler
	healthHandler      *handler.HealthHandler
	adminHandler       *handler.AdminHandler

	tokenService   *service.TokenService
	metricsService *service.MetricsService
	config         *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	doctor *handler.DoctorHandler,
	queue *handler.QueueHandler,
	appointment *handler.AppointmentHandler,
	upload *handler.UploadHandler,
	email *handler.EmailHandler,
	health *handler.HealthHandler,
	admin *handler.AdminHandler,

	tokenService *service.TokenService,
	metricsService *service.MetricsService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:        auth,
		userHandler:        user,
		doctorHandler:      doctor,
		queueHandler:       queue,
		appointmentHandler: appointment,
		uploadHandler:      upload,
		emailHandler:       email,
		healthHandler:      health,
		adminHandler:       admin,

		tokenService:   tokenService,
		metricsService: metricsService,
		config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Security(middleware.SecurityConfig{
		AllowedOrigins: r.config.CORS.AllowedOrigins,
		Production:     r.config.IsProduction(),
	}))
	router.Use(middleware.Metrics(r.metricsService))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)
		api.GET("/health/full", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.config.RateLimit.Request, r.config.RateLimit.Duration))

			r.authRoutes(v1)

			// Presigned uploads carry their grant in the query string,
			// not a session.
			v1.PUT("/files/*key", r.uploadHandler.Receive)

			protected := v1.Group("")
			protected.Use(middleware.Authenticated(r.tokenService, middleware.DefaultPolicies()))
			{
				r.userRoutes(protected)
				r.clinicRoutes(protected)
				r.adminRoutes(protected)
			}
		}
	}

	return router
}

func (r *Router) adminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/metrics", r.adminHandler.Metrics)
		admin.DELETE("/metrics", r.adminHandler.ResetMetrics)
		admin.POST("/tokens/cleanup", r.adminHandler.CleanupTokens)
	}
}
