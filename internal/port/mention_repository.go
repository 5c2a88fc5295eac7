package port

import (
	"context"

	"github.com/google/uuid"

	"fieldatlas/internal/domain"
)

// BoundingBox is a lat/long search rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// MentionRepository defines the contract for location mention persistence.
type MentionRepository interface {
	// ReplaceForDocument deletes any prior mentions for the document and
	// inserts the new set in ranked order.
	ReplaceForDocument(ctx context.Context, docID uuid.UUID, mentions []domain.LocationMention) error
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.LocationMention, error)
	// SearchByBoundingBox returns resolved mentions inside the box, ranked
	// by confidence.
	SearchByBoundingBox(ctx context.Context, box BoundingBox, offset, limit int) ([]domain.LocationMention, int, error)
	DeleteByDocument(ctx context.Context, docID uuid.UUID) error
}
