package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"fieldatlas/internal/app"
	"fieldatlas/internal/config"
	"fieldatlas/internal/handler"
	"fieldatlas/internal/port"
	"fieldatlas/internal/repository/postgres"
	"fieldatlas/internal/router"
	"fieldatlas/internal/service"
	s3storage "fieldatlas/internal/storage/s3"
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
	docRepo := postgres.NewDocumentRepo(db)
	mentionRepo := postgres.NewMentionRepo(db)
	tableRepo := postgres.NewTableRepo(db)
	keywordRepo := postgres.NewKeywordRepo(db)
	gazRepo := postgres.NewGazetteerRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load reference data and build the extraction pipeline
	gaz, err := app.LoadGazetteer(ctx, gazRepo, cfg)
	if err != nil {
		return err
	}
	procSvc := app.BuildProcessService(cfg, docRepo, mentionRepo, tableRepo, keywordRepo, gaz)

	// Initialize storage (optional; exports still download without it)
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	searchSvc := service.NewSearchService(mentionRepo, keywordRepo)
	exportSvc := service.NewExportService(docRepo, mentionRepo, tableRepo, storage, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	statsSvc := service.NewStatsService(statsRepo)

	// Background worker drains the processing queue while the API is up.
	worker := service.NewBatchWorker(docRepo, procSvc, service.BatchWorkerConfig{
		PollInterval: time.Duration(cfg.Batch.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Batch.MaxRetries,
		Concurrency:  cfg.Batch.Concurrency,
		Timeout:      time.Duration(cfg.Batch.TimeoutSecs) * time.Second,
	})
	go worker.Start(ctx)

	// Initialize handlers
	documentH := handler.NewDocumentHandler(procSvc)
	searchH := handler.NewSearchHandler(searchSvc)
	gazetteerH := handler.NewGazetteerHandler(gaz)
	exportH := handler.NewExportHandler(exportSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, documentH, searchH, gazetteerH, exportH, statsH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
