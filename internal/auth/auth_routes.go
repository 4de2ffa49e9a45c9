package auth

import (
	"go-incentive/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	group := r.Group("/auth")
	{
		group.POST("/register", middleware.RateLimitByIP(0.1, 3), h.Register)
		group.POST("/login", middleware.RateLimitByIP(0.08, 5), h.Login)
		group.POST("/refresh", h.RefreshToken)
		group.POST("/logout", h.Logout)
		group.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), h.Me)
	}
}
