package service

import (
	"context"

	"fieldatlas/internal/port"
)

// StatsService provides aggregate statistics over the archive.
type StatsService interface {
	GetStats(ctx context.Context) (*port.ArchiveStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetStats(ctx context.Context) (*port.ArchiveStats, error) {
	return s.statsRepo.Snapshot(ctx)
}
