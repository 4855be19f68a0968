package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// MockCustomerRepo is a mock implementation of port.CustomerRepository.
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) FindCustomers(ctx context.Context, q query.Query) ([]domain.Customer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepo) CountCustomers(ctx context.Context, q query.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepo) ListCustomerOptions(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.CustomerOption, error) {
	args := m.Called(ctx, v, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerOption), args.Error(1)
}
