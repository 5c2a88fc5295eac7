package port

import (
	"context"

	"fieldatlas/internal/domain"
)

// GazetteerRepository defines the contract for gazetteer reference data.
// Entries are seeded out of band and read once per run.
type GazetteerRepository interface {
	ListAll(ctx context.Context) ([]domain.GazetteerEntry, error)
	Count(ctx context.Context) (int, error)
}
