package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"creativehub/internal/config"
	"creativehub/internal/database"
	"creativehub/internal/repository"
)

// Cancels bookings whose payment never arrived. Scheduled hourly.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bookingRepo := repository.NewBookingRepository(db)
	cutoff := time.Now().UTC().Add(-cfg.ExpireUnpaidAfter)
	expired, err := bookingRepo.ExpireUnpaid(ctx, cutoff)
	if err != nil {
		log.Fatalf("booking cleanup failed: %v", err)
	}

	log.Printf("booking cleanup completed: expired=%d cutoff=%s", expired, cutoff.Format(time.RFC3339))
}
