package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/domain"
)

// MockGazetteerRepo is a mock implementation of port.GazetteerRepository.
type MockGazetteerRepo struct {
	mock.Mock
}

func (m *MockGazetteerRepo) ListAll(ctx context.Context) ([]domain.GazetteerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GazetteerEntry), args.Error(1)
}

func (m *MockGazetteerRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
