package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"creativehub/internal/config"
	"creativehub/internal/database"
	"creativehub/internal/gateway"
	"creativehub/internal/middleware"
	"creativehub/internal/modules/booking"
	"creativehub/internal/modules/leaderboard"
	"creativehub/internal/modules/notification"
	"creativehub/internal/modules/refund"
	"creativehub/internal/modules/review"
	"creativehub/internal/modules/xp"
	jwtsvc "creativehub/internal/pkg/jwt"
	"creativehub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	notificationService := notification.NewService(notificationRepo, log.Printf)
	notificationHandler := notification.NewHandler(notificationService)

	xpService := xp.NewService(progressRepo, notificationService, cfg, log.Printf)
	xpHandler := xp.NewHandler(xpService)

	gatewayClient := gateway.NewClient(log.Printf)
	refundService := refund.NewService(bookingRepo, gatewayClient, refundRepo, activityRepo, cfg, log.Printf)
	refundHandler := refund.NewHandler(refundService)

	bookingService := booking.NewService(bookingRepo, notificationService, activityRepo, xpService, refundService, cfg, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(reviewRepo, bookingRepo, xpService, log.Printf)
	reviewHandler := review.NewHandler(reviewService)

	leaderboardService := leaderboard.NewService(leaderboardRepo, leaderboardRepo, progressRepo, cfg, log.Printf)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		leaderboardHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			refundHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
			xpHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}

		// internal, token-gated
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth())
		{
			xpHandler.RegisterInternalRoutes(internal)
			leaderboardHandler.RegisterInternalRoutes(internal)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
