package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

// MockMentionRepo is a mock implementation of port.MentionRepository.
type MockMentionRepo struct {
	mock.Mock
}

func (m *MockMentionRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, mentions []domain.LocationMention) error {
	args := m.Called(ctx, docID, mentions)
	return args.Error(0)
}

func (m *MockMentionRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.LocationMention, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LocationMention), args.Error(1)
}

func (m *MockMentionRepo) SearchByBoundingBox(ctx context.Context, box port.BoundingBox, offset, limit int) ([]domain.LocationMention, int, error) {
	args := m.Called(ctx, box, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.LocationMention), args.Int(1), args.Error(2)
}

func (m *MockMentionRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
