package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/port"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Snapshot(ctx context.Context) (*port.ArchiveStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchiveStats), args.Error(1)
}
