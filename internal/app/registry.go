package app

import (
	"database/sql"

	"go-incentive/internal/admin"
	"go-incentive/internal/attendance"
	"go-incentive/internal/auth"
	"go-incentive/internal/claims"
	"go-incentive/internal/credit"
	"go-incentive/internal/messaging/kafka"
	"go-incentive/internal/realtime"
	"go-incentive/internal/redeem"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	windows := timewindow.FromEnv()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	claimsRepo := claims.NewRepository(db)
	redeemRepo := redeem.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Realtime ---
	hub := realtime.NewHub()

	// --- Services ---
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, creditRepo, userRepo, windows, nil)
	claimsService := claims.NewService(attendanceRepo, creditRepo, claimsRepo, windows, nil, rdb)
	redeemService := redeem.NewService(db, redeemRepo, claimsRepo, creditRepo, userRepo, outboxRepo, hub, nil)
	adminService := admin.NewService(userRepo, attendanceRepo, redeemRepo, nil)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	claimsHandler := claims.NewHandler(claimsService, nil)
	redeemHandler := redeem.NewHandler(redeemService)
	adminHandler := admin.NewHandler(adminService)
	realtimeHandler := realtime.NewHandler(hub)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		claims.RegisterRoutes(api, claimsHandler)
		redeem.RegisterRoutes(api, redeemHandler, rdb)
		admin.RegisterRoutes(api, adminHandler)
		realtime.RegisterRoutes(api, realtimeHandler)
	}

	return nil
}
