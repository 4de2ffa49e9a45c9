package claims

import (
	"go-incentive/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/claims")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/today", h.Today)
		group.GET("/month", h.Month)
		group.GET("/month/summary", h.MonthSummary)
		group.GET("/month/earned", h.MonthEarned)
		group.GET("/available", h.Available)
	}
}
