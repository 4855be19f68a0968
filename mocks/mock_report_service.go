package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) FilterInvoices(ctx context.Context, f domain.InvoiceFilter) (*domain.InvoicePage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoicePage), args.Error(1)
}

func (m *MockReportService) FilterCustomers(ctx context.Context, f domain.CustomerFilter) (*domain.CustomerPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerPage), args.Error(1)
}

func (m *MockReportService) FilterProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPage), args.Error(1)
}

func (m *MockReportService) GetUniqueMonths(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]string, error) {
	args := m.Called(ctx, userID, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportService) GetUniqueCustomers(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]domain.CustomerOption, error) {
	args := m.Called(ctx, userID, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerOption), args.Error(1)
}

func (m *MockReportService) ListInvoiceIDs(ctx context.Context, f domain.InvoiceFilter) ([]uuid.UUID, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
