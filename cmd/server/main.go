package main

import (
	"fmt"
	"log"

	"briefer/internal/config"
	"briefer/internal/extract"
	"briefer/internal/handler"
	"briefer/internal/port"
	_ "briefer/internal/provider/claude"
	_ "briefer/internal/provider/gemini"
	_ "briefer/internal/provider/openai"
	"briefer/internal/repository/postgres"
	"briefer/internal/router"
	"briefer/internal/service"
	s3storage "briefer/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	promptRepo := postgres.NewPromptRepo(db)
	keyRepo := postgres.NewProviderKeyRepo(db)
	batchRepo := postgres.NewBatchRepo(db)

	// Initialize storage (transcript archiving is optional)
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	summarySvc := service.NewSummaryService(cfg, extract.NewPDFExtractor(), keyRepo, batchRepo, storage)
	promptSvc := service.NewPromptService(promptRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	summarizeH := handler.NewSummarizeHandler(summarySvc, cfg.Upload)
	batchH := handler.NewBatchHandler(summarySvc, cfg.Upload)
	promptH := handler.NewPromptHandler(promptSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, authSvc, authH, summarizeH, batchH, promptH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
