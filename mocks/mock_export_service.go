package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"businessathi/internal/domain"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportInvoices(ctx context.Context, f domain.InvoiceFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	args := m.Called(ctx, f, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportCustomers(ctx context.Context, f domain.CustomerFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	args := m.Called(ctx, f, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportProducts(ctx context.Context, f domain.ProductFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	args := m.Called(ctx, f, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportFile), args.Error(1)
}
