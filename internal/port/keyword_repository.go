package port

import (
	"context"

	"github.com/google/uuid"

	"fieldatlas/internal/domain"
)

// KeywordRepository defines the contract for keyword persistence.
type KeywordRepository interface {
	ReplaceForDocument(ctx context.Context, docID uuid.UUID, keywords []domain.Keyword) error
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Keyword, error)
	// SearchByTerm returns keywords whose term matches (case-insensitive
	// prefix), ranked by score.
	SearchByTerm(ctx context.Context, term string, offset, limit int) ([]domain.Keyword, int, error)
	DeleteByDocument(ctx context.Context, docID uuid.UUID) error
}
