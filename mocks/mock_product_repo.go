package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// MockProductRepo is a mock implementation of port.ProductRepository.
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindProducts(ctx context.Context, q query.Query) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepo) CountProducts(ctx context.Context, q query.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}
