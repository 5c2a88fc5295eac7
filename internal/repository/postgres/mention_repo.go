package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

type mentionRepo struct {
	db *sqlx.DB
}

// NewMentionRepo creates a new PostgreSQL-backed MentionRepository.
func NewMentionRepo(db *sqlx.DB) port.MentionRepository {
	return &mentionRepo{db: db}
}

func (r *mentionRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, mentions []domain.LocationMention) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mentionRepo.ReplaceForDocument begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM location_mentions WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("mentionRepo.ReplaceForDocument delete: %w", err)
	}

	query := `INSERT INTO location_mentions (
		id, document_id, text, type, latitude, longitude, utm_zone,
		confidence, context, page_number, span_start, span_end, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13
	)`

	now := time.Now().UTC()
	for i := range mentions {
		m := &mentions[i]
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		m.DocumentID = docID
		m.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			m.ID, m.DocumentID, m.Text, m.Type, m.Latitude, m.Longitude, m.UTMZone,
			m.Confidence, m.Context, m.PageNumber, m.SpanStart, m.SpanEnd, m.CreatedAt); err != nil {
			return fmt.Errorf("mentionRepo.ReplaceForDocument insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mentionRepo.ReplaceForDocument commit: %w", err)
	}
	return nil
}

func (r *mentionRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.LocationMention, error) {
	var mentions []domain.LocationMention
	err := r.db.SelectContext(ctx, &mentions,
		`SELECT * FROM location_mentions
		 WHERE document_id = $1
		 ORDER BY confidence DESC, span_start ASC, span_end ASC`, docID)
	if err != nil {
		return nil, fmt.Errorf("mentionRepo.ListByDocument: %w", err)
	}
	return mentions, nil
}

func (r *mentionRepo) SearchByBoundingBox(ctx context.Context, box port.BoundingBox, offset, limit int) ([]domain.LocationMention, int, error) {
	where := `WHERE latitude IS NOT NULL
		AND latitude BETWEEN $1 AND $2
		AND longitude BETWEEN $3 AND $4`

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM location_mentions "+where,
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, 0, fmt.Errorf("mentionRepo.SearchByBoundingBox count: %w", err)
	}

	var mentions []domain.LocationMention
	err = r.db.SelectContext(ctx, &mentions,
		`SELECT * FROM location_mentions `+where+`
		 ORDER BY confidence DESC, created_at ASC
		 LIMIT $5 OFFSET $6`,
		box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("mentionRepo.SearchByBoundingBox: %w", err)
	}
	return mentions, total, nil
}

func (r *mentionRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM location_mentions WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("mentionRepo.DeleteByDocument: %w", err)
	}
	return nil
}
