package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		// Listing is admin-readable; the policy table scopes writes.
		users.GET("", r.userHandler.GetAll)
		users.GET("/:id", r.userHandler.GetByID)
		users.PUT("/:id", r.userHandler.Update)
		users.PUT("/:id/password", r.userHandler.UpdatePassword)
		users.DELETE("/:id", r.userHandler.Delete)
	}
}
