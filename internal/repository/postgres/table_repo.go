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

type tableRepo struct {
	db *sqlx.DB
}

// NewTableRepo creates a new PostgreSQL-backed TableRepository.
func NewTableRepo(db *sqlx.DB) port.TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, tables []domain.TableCandidate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tableRepo.ReplaceForDocument begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM table_candidates WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("tableRepo.ReplaceForDocument delete: %w", err)
	}

	query := `INSERT INTO table_candidates (
		id, table_id, document_id, page_number, extractor_source,
		rows, columns, headers, data, quality_score, accepted, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10, $11, $12
	)`

	now := time.Now().UTC()
	for i := range tables {
		t := &tables[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.DocumentID = docID
		t.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			t.ID, t.TableID, t.DocumentID, t.PageNumber, t.ExtractorSource,
			t.Rows, t.Columns, t.Headers, t.Data, t.QualityScore, t.Accepted, t.CreatedAt); err != nil {
			return fmt.Errorf("tableRepo.ReplaceForDocument insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tableRepo.ReplaceForDocument commit: %w", err)
	}
	return nil
}

func (r *tableRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.TableCandidate, error) {
	var tables []domain.TableCandidate
	err := r.db.SelectContext(ctx, &tables,
		`SELECT * FROM table_candidates
		 WHERE document_id = $1
		 ORDER BY page_number ASC, quality_score DESC`, docID)
	if err != nil {
		return nil, fmt.Errorf("tableRepo.ListByDocument: %w", err)
	}
	return tables, nil
}

func (r *tableRepo) ListAccepted(ctx context.Context, offset, limit int) ([]domain.TableCandidate, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM table_candidates WHERE accepted = TRUE")
	if err != nil {
		return nil, 0, fmt.Errorf("tableRepo.ListAccepted count: %w", err)
	}

	var tables []domain.TableCandidate
	err = r.db.SelectContext(ctx, &tables,
		`SELECT * FROM table_candidates
		 WHERE accepted = TRUE
		 ORDER BY created_at DESC, quality_score DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("tableRepo.ListAccepted: %w", err)
	}
	return tables, total, nil
}

func (r *tableRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM table_candidates WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("tableRepo.DeleteByDocument: %w", err)
	}
	return nil
}
