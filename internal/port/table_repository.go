package port

import (
	"context"

	"github.com/google/uuid"

	"fieldatlas/internal/domain"
)

// TableRepository defines the contract for accepted table persistence.
// Rejected candidates are never persisted; downstream storage stays free
// of extraction noise.
type TableRepository interface {
	ReplaceForDocument(ctx context.Context, docID uuid.UUID, tables []domain.TableCandidate) error
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.TableCandidate, error)
	ListAccepted(ctx context.Context, offset, limit int) ([]domain.TableCandidate, int, error)
	DeleteByDocument(ctx context.Context, docID uuid.UUID) error
}
