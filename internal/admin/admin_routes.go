package admin

import (
	"go-incentive/internal/middleware"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/admin")
	group.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(user.RoleAdmin))
	{
		group.GET("/overview", h.Overview)
	}
}
