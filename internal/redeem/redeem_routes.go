package redeem

import (
	"go-incentive/internal/middleware"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	group := r.Group("/redeem")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/request", middleware.Idempotency(rdb), h.CreateRequest)
		group.GET("/requests", h.ListRequests)
		group.POST("/requests/:id", middleware.Idempotency(rdb), h.Redeem)
		group.POST("", middleware.Idempotency(rdb), h.RedeemDirect)
	}

	admin := r.Group("/admin/redeem")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(user.RoleAdmin))
	{
		admin.GET("/requests", h.ListAllRequests)
		admin.POST("/requests/:id/approve", middleware.Idempotency(rdb), h.Approve)
		admin.POST("/requests/:id/deny", h.Deny)
	}
}
