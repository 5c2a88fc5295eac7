package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

type gazetteerRepo struct {
	db *sqlx.DB
}

// NewGazetteerRepo creates a new PostgreSQL-backed GazetteerRepository.
func NewGazetteerRepo(db *sqlx.DB) port.GazetteerRepository {
	return &gazetteerRepo{db: db}
}

func (r *gazetteerRepo) ListAll(ctx context.Context) ([]domain.GazetteerEntry, error) {
	var entries []domain.GazetteerEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM gazetteer_entries ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("gazetteerRepo.ListAll: %w", err)
	}
	return entries, nil
}

func (r *gazetteerRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM gazetteer_entries"); err != nil {
		return 0, fmt.Errorf("gazetteerRepo.Count: %w", err)
	}
	return total, nil
}
