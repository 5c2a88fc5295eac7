package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.ProcessingStatus == "" {
		doc.ProcessingStatus = domain.ProcessingStatusQueued
	}

	query := `INSERT INTO documents (
		id, name, media_type, pages, raw_tables, backend_failures,
		processing_status, processing_error, process_attempts,
		diagnostics, processed_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9,
		$10, $11, $12, $13
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Name, doc.MediaType, doc.Pages, doc.RawTables, doc.BackendFailures,
		doc.ProcessingStatus, doc.ProcessingError, doc.ProcessAttempts,
		doc.Diagnostics, doc.ProcessedAt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, status domain.ProcessingStatus, offset, limit int) ([]domain.Document, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = "WHERE processing_status = $1"
		args = append(args, status)
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM documents %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var docs []domain.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

// ClaimQueued flips up to limit queued documents to processing inside one
// statement so concurrent workers cannot double-claim a document.
func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	query := `UPDATE documents SET
		processing_status = $1,
		updated_at = $2
	WHERE id IN (
		SELECT id FROM documents
		WHERE processing_status = $3
		ORDER BY created_at
		LIMIT $4
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs, query,
		domain.ProcessingStatusProcessing, time.Now().UTC(), domain.ProcessingStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE documents SET
		processing_status = $1,
		processing_error = $2,
		process_attempts = $3,
		diagnostics = $4,
		processed_at = $5,
		updated_at = $6
	WHERE id = $7`

	res, err := r.db.ExecContext(ctx, query,
		doc.ProcessingStatus, doc.ProcessingError, doc.ProcessAttempts,
		doc.Diagnostics, doc.ProcessedAt, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) Requeue(ctx context.Context, docID uuid.UUID) error {
	query := `UPDATE documents SET
		processing_status = $1,
		processing_error = '',
		updated_at = $2
	WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query,
		domain.ProcessingStatusQueued, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Requeue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
