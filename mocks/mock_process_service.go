package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/ingest"
	"fieldatlas/internal/service"
)

// MockProcessService is a mock implementation of service.ProcessService.
type MockProcessService struct {
	mock.Mock
}

func (m *MockProcessService) Ingest(ctx context.Context, payload *ingest.Payload) (*domain.Document, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockProcessService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockProcessService) List(ctx context.Context, status domain.ProcessingStatus, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockProcessService) Results(ctx context.Context, docID uuid.UUID) (*service.DocumentResults, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentResults), args.Error(1)
}

func (m *MockProcessService) Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockProcessService) Delete(ctx context.Context, docID uuid.UUID) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockProcessService) ProcessDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	m.Called(ctx, doc, maxAttempts)
}
