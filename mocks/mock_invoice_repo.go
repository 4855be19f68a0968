package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) FindInvoices(ctx context.Context, q query.Query) ([]domain.RawInvoice, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawInvoice), args.Error(1)
}

func (m *MockInvoiceRepo) CountInvoices(ctx context.Context, q query.Query) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepo) ListInvoiceIDs(ctx context.Context, q query.Query) ([]uuid.UUID, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInvoiceRepo) DistinctMonths(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, v, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepo) ListInvoiceAmounts(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.InvoiceAmount, error) {
	args := m.Called(ctx, v, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceAmount), args.Error(1)
}
