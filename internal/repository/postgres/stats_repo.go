package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fieldatlas/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Snapshot(ctx context.Context) (*port.ArchiveStats, error) {
	stats := &port.ArchiveStats{
		DocumentsByStatus: make(map[string]int),
		MentionsByType:    make(map[string]int),
	}

	type countRow struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var byStatus []countRow
	err := r.db.SelectContext(ctx, &byStatus,
		`SELECT processing_status AS key, COUNT(*) AS count
		 FROM documents GROUP BY processing_status`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Snapshot documents: %w", err)
	}
	for _, row := range byStatus {
		stats.DocumentsByStatus[row.Key] = row.Count
	}

	var byType []countRow
	err = r.db.SelectContext(ctx, &byType,
		`SELECT type AS key, COUNT(*) AS count
		 FROM location_mentions GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.Snapshot mentions: %w", err)
	}
	for _, row := range byType {
		stats.MentionsByType[row.Key] = row.Count
	}

	queries := []struct {
		dest  *int
		query string
	}{
		{&stats.ResolvedMentions, "SELECT COUNT(*) FROM location_mentions WHERE latitude IS NOT NULL"},
		{&stats.AcceptedTables, "SELECT COUNT(*) FROM table_candidates WHERE accepted = TRUE"},
		{&stats.Keywords, "SELECT COUNT(*) FROM keywords"},
		{&stats.GazetteerEntries, "SELECT COUNT(*) FROM gazetteer_entries"},
	}
	for _, q := range queries {
		if err := r.db.GetContext(ctx, q.dest, q.query); err != nil {
			return nil, fmt.Errorf("statsRepo.Snapshot: %w", err)
		}
	}

	return stats, nil
}
