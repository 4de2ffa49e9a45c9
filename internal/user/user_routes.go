package user

import (
	"go-incentive/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/user")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/incentives", h.Incentives)
		group.GET("/admins", h.AdminEmails)
	}
}
