package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macrosnap/backend/config"
	"github.com/macrosnap/backend/internal/api"
	"github.com/macrosnap/backend/internal/database"
	"github.com/macrosnap/backend/internal/middleware"
	"github.com/macrosnap/backend/internal/router"
	"github.com/macrosnap/backend/internal/server"
	"github.com/macrosnap/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis powers the summary cache and rate limiting; the bot still works
	// without it, just slower and unthrottled.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without caching and rate limiting: %v", err)
		redisClient = nil
	}

	historyService := service.NewHistoryService(db)
	summaryService := service.NewSummaryService(historyService, redisClient)
	visionService := service.NewVisionService(cfg)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.GatewayClientID, cfg.GatewayClientSecretHash)

	// Photo archiving is optional; without S3 records simply carry no
	// photo URL.
	var photoService service.IPhotoStore
	if s3Config, err := config.NewS3Config(context.Background(), cfg); err != nil {
		log.Printf("S3 unavailable, continuing without photo storage: %v", err)
	} else {
		photoService = service.NewPhotoService(s3Config)
	}

	var analysisLimiter *middleware.RateLimiter
	if redisClient != nil {
		analysisLimiter = middleware.NewAnalysisRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		db,
		api.NewAuthHandler(authService),
		api.NewMealHandler(visionService, photoService, historyService, summaryService),
		api.NewSummaryHandler(summaryService),
		authService,
		analysisLimiter,
	)

	srv := server.New(engine, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
