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

type keywordRepo struct {
	db *sqlx.DB
}

// NewKeywordRepo creates a new PostgreSQL-backed KeywordRepository.
func NewKeywordRepo(db *sqlx.DB) port.KeywordRepository {
	return &keywordRepo{db: db}
}

func (r *keywordRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, keywords []domain.Keyword) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("keywordRepo.ReplaceForDocument begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM keywords WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("keywordRepo.ReplaceForDocument delete: %w", err)
	}

	query := `INSERT INTO keywords (
		id, document_id, term, score, rank, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	for i := range keywords {
		k := &keywords[i]
		if k.ID == uuid.Nil {
			k.ID = uuid.New()
		}
		k.DocumentID = docID
		k.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			k.ID, k.DocumentID, k.Term, k.Score, k.Rank, k.CreatedAt); err != nil {
			return fmt.Errorf("keywordRepo.ReplaceForDocument insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("keywordRepo.ReplaceForDocument commit: %w", err)
	}
	return nil
}

func (r *keywordRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Keyword, error) {
	var keywords []domain.Keyword
	err := r.db.SelectContext(ctx, &keywords,
		`SELECT * FROM keywords WHERE document_id = $1 ORDER BY rank ASC`, docID)
	if err != nil {
		return nil, fmt.Errorf("keywordRepo.ListByDocument: %w", err)
	}
	return keywords, nil
}

func (r *keywordRepo) SearchByTerm(ctx context.Context, term string, offset, limit int) ([]domain.Keyword, int, error) {
	pattern := term + "%"

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM keywords WHERE term ILIKE $1", pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("keywordRepo.SearchByTerm count: %w", err)
	}

	var keywords []domain.Keyword
	err = r.db.SelectContext(ctx, &keywords,
		`SELECT * FROM keywords
		 WHERE term ILIKE $1
		 ORDER BY score DESC, term ASC
		 LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("keywordRepo.SearchByTerm: %w", err)
	}
	return keywords, total, nil
}

func (r *keywordRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM keywords WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("keywordRepo.DeleteByDocument: %w", err)
	}
	return nil
}
