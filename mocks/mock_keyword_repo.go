package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/domain"
)

// MockKeywordRepo is a mock implementation of port.KeywordRepository.
type MockKeywordRepo struct {
	mock.Mock
}

func (m *MockKeywordRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, keywords []domain.Keyword) error {
	args := m.Called(ctx, docID, keywords)
	return args.Error(0)
}

func (m *MockKeywordRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.Keyword, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Keyword), args.Error(1)
}

func (m *MockKeywordRepo) SearchByTerm(ctx context.Context, term string, offset, limit int) ([]domain.Keyword, int, error) {
	args := m.Called(ctx, term, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Keyword), args.Int(1), args.Error(2)
}

func (m *MockKeywordRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
