package router

import "github.com/gin-gonic/gin"

func (r *Router) clinicRoutes(rg *gin.RouterGroup) {
	doctors := rg.Group("/doctors")
	{
		doctors.GET("", r.doctorHandler.GetAll)
		doctors.GET("/:id", r.doctorHandler.GetByID)
		doctors.POST("", r.doctorHandler.Create)
		doctors.PUT("/:id", r.doctorHandler.Update)
		doctors.DELETE("/:id", r.doctorHandler.Delete)
	}

	queues := rg.Group("/queues")
	{
		queues.GET("", r.queueHandler.GetAll)
		queues.GET("/:id", r.queueHandler.GetByID)
		queues.POST("", r.queueHandler.Create)
		queues.DELETE("/:id", r.queueHandler.Delete)
	}

	appointments := rg.Group("/appointments")
	{
		appointments.GET("", r.appointmentHandler.GetAll)
		appointments.GET("/:id", r.appointmentHandler.GetByID)
		appointments.POST("", r.appointmentHandler.Book)
		appointments.PATCH("/:id", r.appointmentHandler.UpdateStatus)
	}

	rg.POST("/uploads/presign", r.uploadHandler.Presign)
	rg.POST("/emails", r.emailHandler.Send)
}
