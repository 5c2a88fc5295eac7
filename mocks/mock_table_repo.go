package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/domain"
)

// MockTableRepo is a mock implementation of port.TableRepository.
type MockTableRepo struct {
	mock.Mock
}

func (m *MockTableRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, tables []domain.TableCandidate) error {
	args := m.Called(ctx, docID, tables)
	return args.Error(0)
}

func (m *MockTableRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.TableCandidate, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TableCandidate), args.Error(1)
}

func (m *MockTableRepo) ListAccepted(ctx context.Context, offset, limit int) ([]domain.TableCandidate, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TableCandidate), args.Int(1), args.Error(2)
}

func (m *MockTableRepo) DeleteByDocument(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}
