package attendance

import (
	"go-incentive/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.RateLimitByUser(5, 10))
	{
		attendances.POST("/login", h.PunchIn)
		attendances.POST("/logout", h.PunchOut)
		attendances.GET("/today", h.Today)
	}
}
