package port

import (
	"context"

	"github.com/google/uuid"

	"fieldatlas/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, status domain.ProcessingStatus, offset, limit int) ([]domain.Document, int, error)
	// ClaimQueued atomically marks up to limit queued documents as
	// processing and returns them, so concurrent workers never double-claim.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, doc *domain.Document) error
	Requeue(ctx context.Context, docID uuid.UUID) error
	Delete(ctx context.Context, docID uuid.UUID) error
}
