package service

import (
	"context"
	"log"
	"sync"
	"time"

	"fieldatlas/internal/port"
)

// BatchWorkerConfig holds settings for the batch processing worker.
type BatchWorkerConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
	Timeout      time.Duration
}

// BatchWorker polls for queued documents and dispatches them to the
// extraction pipeline.
type BatchWorker struct {
	docRepo port.DocumentRepository
	procSvc ProcessService
	cfg     BatchWorkerConfig
	wg      sync.WaitGroup
}

// NewBatchWorker creates a new BatchWorker.
func NewBatchWorker(docRepo port.DocumentRepository, procSvc ProcessService, cfg BatchWorkerConfig) *BatchWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &BatchWorker{docRepo: docRepo, procSvc: procSvc, cfg: cfg}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight pipeline runs have finished.
func (w *BatchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("batchWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("batchWorker: shutting down, waiting for in-flight documents...")
			w.wg.Wait()
			log.Printf("batchWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("batchWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine
				doc.ProcessAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight documents complete even during shutdown.
					procCtx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
					defer cancel()

					log.Printf("batchWorker: dispatching document %s (attempt %d)", doc.ID, doc.ProcessAttempts)
					w.procSvc.ProcessDocument(procCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
