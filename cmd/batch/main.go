// Command batch ingests extraction payload files from a directory and
// drains the processing queue until interrupted.
// Usage: batch [input-dir]
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldatlas/internal/app"
	"fieldatlas/internal/config"
	"fieldatlas/internal/domain"
	"fieldatlas/internal/ingest"
	"fieldatlas/internal/repository/postgres"
	"fieldatlas/internal/service"
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

	inputDir := cfg.Batch.InputDir
	if len(os.Args) > 1 {
		inputDir = os.Args[1]
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	docRepo := postgres.NewDocumentRepo(db)
	mentionRepo := postgres.NewMentionRepo(db)
	tableRepo := postgres.NewTableRepo(db)
	keywordRepo := postgres.NewKeywordRepo(db)
	gazRepo := postgres.NewGazetteerRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gaz, err := app.LoadGazetteer(ctx, gazRepo, cfg)
	if err != nil {
		return err
	}
	procSvc := app.BuildProcessService(cfg, docRepo, mentionRepo, tableRepo, keywordRepo, gaz)

	if inputDir != "" {
		if err := ingestDir(ctx, procSvc, inputDir); err != nil {
			return err
		}
	}

	worker := service.NewBatchWorker(docRepo, procSvc, service.BatchWorkerConfig{
		PollInterval: time.Duration(cfg.Batch.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Batch.MaxRetries,
		Concurrency:  cfg.Batch.Concurrency,
		Timeout:      time.Duration(cfg.Batch.TimeoutSecs) * time.Second,
	})
	worker.Start(ctx)
	return nil
}

// ingestDir queues every payload file in dir. A payload that cannot be
// parsed or is rejected at validation skips that file only; the batch
// carries on.
func ingestDir(ctx context.Context, procSvc service.ProcessService, dir string) error {
	paths, err := ingest.ListDir(dir)
	if err != nil {
		return err
	}
	log.Printf("batch: found %d payload files in %s", len(paths), dir)

	queued, skipped := 0, 0
	for _, path := range paths {
		payload, err := ingest.ReadFile(path)
		if err != nil {
			log.Printf("batch: skipping %s: %v", path, err)
			skipped++
			continue
		}
		doc, err := procSvc.Ingest(ctx, payload)
		if err != nil {
			if errors.Is(err, domain.ErrDocumentEmpty) || errors.Is(err, domain.ErrUnsupportedMediaType) {
				log.Printf("batch: skipping %s: %v", path, err)
				skipped++
				continue
			}
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		log.Printf("batch: queued %s as %s", path, doc.ID)
		queued++
	}
	log.Printf("batch: ingest complete (%d queued, %d skipped)", queued, skipped)
	return nil
}
