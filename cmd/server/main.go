package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/storage/redis/v3"
	"github.com/joho/godotenv"
	"github.com/lrstanley/go-ytdlp"

	"vidgate/internal/chat"
	"vidgate/internal/config"
	"vidgate/internal/db"
	"vidgate/internal/fetch"
	"vidgate/internal/jobs"
	"vidgate/internal/library"
	"vidgate/internal/metrics"
	"vidgate/internal/moderation"
	"vidgate/internal/postings"
	"vidgate/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	channels, err := config.LoadChannelsConfig()
	if err != nil {
		log.Fatalf("Failed to load channels config: %v", err)
	}
	cfg.Apply(channels)

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	metrics.Init(database)

	// Posting registry: redis when configured, in-process otherwise. The
	// registry is a cache; the link store can rebuild it either way.
	var storage postings.Storage
	if cfg.RedisURL != "" {
		storage = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Println("Posting registry backed by redis")
	} else {
		storage = postings.NewMemoryStorage()
		log.Println("Posting registry in-process (REDIS_URL not set)")
	}
	registry := postings.NewRegistry(storage)

	// Make sure the yt-dlp binary is available before the first cycle.
	ytdlp.MustInstall(ctx, nil)

	messenger := chat.NewClient(cfg.ChatAPIURL, cfg.ChatToken)
	refresher := library.NewClient(cfg.MediaServerURL, cfg.MediaServerToken, cfg.MediaLibraryID)
	assets := library.NewAssets(cfg.DownloadDir)
	fetcher := fetch.NewYTDLPFetcher(cfg.DownloadDir)

	mod := moderation.NewService(database, messenger, registry, refresher, assets, cfg)

	// Gateway: inbound submissions and decisions.
	if cfg.ChatGatewayURL != "" {
		gateway := chat.NewGateway(cfg.ChatGatewayURL, cfg.ChatToken, mod)
		go gateway.Run(ctx)
	} else {
		log.Println("CHAT_GATEWAY_URL not set; chat ingestion disabled, operator API only")
	}

	// Download orchestrator: the single background worker.
	downloader := jobs.NewDownloader(database, fetcher, refresher, mod, cfg.PollInterval)
	go downloader.Start(ctx)

	srv := server.New(cfg)
	srv.RegisterRoutes(database, mod)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
