package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
)

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetInvoiceStatistics(ctx context.Context, userID uuid.UUID, v domain.Variant) (*domain.InvoiceStatistics, error) {
	args := m.Called(ctx, userID, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceStatistics), args.Error(1)
}
