package router

import (
	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/internal/middleware"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/signup", r.authHandler.Signup)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)

		// Protected routes (session required)
		protected := auth.Group("")
		protected.Use(middleware.Authenticated(r.tokenService, middleware.DefaultPolicies()))
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.GET("/me", r.authHandler.Me)
		}
	}
}
