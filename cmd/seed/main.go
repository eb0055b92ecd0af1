package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/database"
	"creativehub/internal/domain"
	"creativehub/internal/modules/notification"
	"creativehub/internal/modules/xp"
	"creativehub/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "creativehub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM refunds")
	db.Exec("DELETE FROM activity_log")
	db.Exec("DELETE FROM leaderboard_entries")
	db.Exec("DELETE FROM xp_transactions")
	db.Exec("DELETE FROM user_progress")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	clients := make([]domain.User, 0, 3)
	clientEmails := []string{"asel@mail.kz", "bekzat@gmail.com", "dina@yandex.kz"}
	for i, email := range clientEmails {
		u := domain.User{
			Email:       email,
			DisplayName: fmt.Sprintf("Client %d", i+1),
			Role:        domain.RoleClient,
			City:        "Almaty",
		}
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Fatal("seed client failed:", err)
		}
		clients = append(clients, u)
	}

	creatorRoles := []domain.UserRole{domain.RoleArtist, domain.RoleEngineer, domain.RoleProducer, domain.RoleStudio}
	cities := []string{"Almaty", "Astana"}
	creators := make([]domain.User, 0, 8)
	for i := 0; i < 8; i++ {
		u := domain.User{
			Email:       fmt.Sprintf("creator%d@creativehub.kz", i+1),
			DisplayName: fmt.Sprintf("Creator %d", i+1),
			Role:        creatorRoles[i%len(creatorRoles)],
			City:        cities[i%len(cities)],
		}
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Fatal("seed creator failed:", err)
		}
		creators = append(creators, u)
	}
	log.Printf("Users created: clients=%d creators=%d", len(clients), len(creators))

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	split := domain.RevenueSplit{"provider": 0.8, "platform": 0.2}
	for i := 0; i < 12; i++ {
		client := clients[i%len(clients)]
		creator := creators[i%len(creators)]
		b := domain.Booking{
			ClientUID:      client.ID,
			ProviderUID:    creator.ID,
			Status:         domain.BookingPending,
			ScheduledAt:    time.Now().Add(time.Duration(24+rand.Intn(240)) * time.Hour),
			TotalCostMinor: int64(5000 + rand.Intn(45000)),
			PaymentStatus:  domain.PaymentPending,
			RevenueSplit:   split,
			Notes:          fmt.Sprintf("Demo session %d", i+1),
		}
		if err := bookingRepo.Create(ctx, &b); err != nil {
			log.Fatal("seed booking failed:", err)
		}

		// Walk some bookings through the funnel so lists look lived-in.
		switch i % 4 {
		case 1:
			_ = bookingRepo.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed)
		case 2:
			_ = bookingRepo.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed)
			_ = bookingRepo.TransitionStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingPaid)
			_ = bookingRepo.MarkPaid(ctx, b.ID, fmt.Sprintf("seed-pay-%d", b.ID))
		}
	}

	// ================== XP / PROGRESS ==================
	log.Println("Seeding XP ledgers...")

	cfg := config.DefaultRuntimeConfig()
	notificationService := notification.NewService(notificationRepo, log.Printf)
	xpService := xp.NewService(progressRepo, notificationService, cfg, log.Printf)

	events := []domain.XPEvent{
		domain.EventBookingConfirmed,
		domain.EventFiveStarReview,
		domain.EventQuickReply,
		domain.EventProfileCompleted,
	}
	for i, creator := range creators {
		for n := 0; n <= i%3+1; n++ {
			event := events[(i+n)%len(events)]
			contextID := fmt.Sprintf("seed-%d-%d", creator.ID, n)
			if _, err := xpService.AwardXP(ctx, creator.ID, event, xp.AwardOptions{ContextID: contextID}); err != nil {
				log.Printf("level=warn msg=seed award failed uid=%d event=%s err=%v", creator.ID, event, err)
			}
		}
	}

	log.Println("Seed completed")
}
