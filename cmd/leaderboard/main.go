package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"creativehub/internal/config"
	"creativehub/internal/database"
	"creativehub/internal/modules/leaderboard"
	"creativehub/internal/repository"
)

// Rebuilds the leaderboard snapshots once, or on a fixed interval when
// -interval is set. Scheduled nightly in production.
func main() {
	interval := flag.Duration("interval", 0, "rebuild period; run once and exit when zero")
	flag.Parse()

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

	leaderboardRepo := repository.NewLeaderboardRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	service := leaderboard.NewService(leaderboardRepo, leaderboardRepo, progressRepo, cfg, log.Printf)

	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		res, err := service.Run(ctx, time.Now())
		if err != nil {
			log.Printf("level=error msg=leaderboard rebuild failed err=%v", err)
			return
		}
		log.Printf("leaderboard rebuild completed groups_written=%d groups_failed=%d reset_applied=%t",
			res.GroupsWritten, res.GroupsFailed, res.ResetApplied)
	}

	runOnce()
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		runOnce()
	}
}
