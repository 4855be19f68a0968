package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"businessathi/internal/domain"
	"businessathi/internal/export"
	"businessathi/internal/port"
	"businessathi/internal/repository/memory"
	"businessathi/internal/service"
	"businessathi/mocks"
)

func newExportService(s *memory.Store, storage port.ObjectStorage, archive service.ArchiveOptions) service.ExportService {
	return service.NewExportService(s, s, s, storage, service.DefaultReportOptions(), archive, func() time.Time { return fixedNow }, zerolog.Nop())
}

func TestExportService_InvoicesCSV_RoundTrip(t *testing.T) {
	f := newFixture()
	svc := newExportService(f.store, nil, service.ArchiveOptions{})

	file, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST, GlobalSearch: "titan"}, domain.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "gst_invoices_2025-06-18_09-30-00.csv", file.Filename)
	assert.Equal(t, export.ContentTypeCSV, file.ContentType)
	assert.Equal(t, 2, file.Rows)

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Invoice No", rows[0][0])
	assert.Equal(t, "4", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "Titan Industries", rows[1][4])
}

func TestExportService_InvoicesXLSX(t *testing.T) {
	f := newFixture()
	svc := newExportService(f.store, nil, service.ArchiveOptions{})

	file, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST}, "XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeXLSX, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("GST Invoices")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestExportService_NothingToExport(t *testing.T) {
	f := newFixture()
	svc := newExportService(f.store, nil, service.ArchiveOptions{})

	_, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantLocal}, domain.FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNothingToExport)
	assert.Equal(t, "no invoices found for export", err.Error())

	_, err = svc.ExportProducts(context.Background(), domain.ProductFilter{UserID: f.u2, Variant: domain.VariantLocal}, domain.FormatXLSX)
	assert.Equal(t, "no products found for export", err.Error())
}

func TestExportService_InvalidFormat(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewExportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), nil, service.DefaultReportOptions(), service.ArchiveOptions{}, nil, zerolog.Nop())

	_, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST}, "pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	repo.AssertNotCalled(t, "CountInvoices", mock.Anything, mock.Anything)
}

func TestExportService_RejectsOversizedExport(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewExportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), nil, service.DefaultReportOptions(), service.ArchiveOptions{}, nil, zerolog.Nop())

	repo.On("CountInvoices", mock.Anything, mock.Anything).Return(10001, nil)

	_, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST}, domain.FormatCSV)
	assert.ErrorIs(t, err, domain.ErrExportTooLarge)
	repo.AssertNotCalled(t, "FindInvoices", mock.Anything, mock.Anything)
}

func TestExportService_StorageErrorIsTranslated(t *testing.T) {
	customers := new(mocks.MockCustomerRepo)
	svc := service.NewExportService(new(mocks.MockInvoiceRepo), customers, new(mocks.MockProductRepo), nil, service.DefaultReportOptions(), service.ArchiveOptions{}, nil, zerolog.Nop())

	customers.On("CountCustomers", mock.Anything, mock.Anything).Return(3, nil)
	customers.On("FindCustomers", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := svc.ExportCustomers(context.Background(), domain.CustomerFilter{UserID: uuid.New(), Variant: domain.VariantGST}, domain.FormatCSV)
	var opErr *domain.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "failed to export customers", opErr.Message)
}

func TestExportService_CustomersUseFilter(t *testing.T) {
	f := newFixture()
	svc := newExportService(f.store, nil, service.ArchiveOptions{})

	file, err := svc.ExportCustomers(context.Background(), domain.CustomerFilter{UserID: f.u1, Variant: domain.VariantGST, GlobalSearch: "titan"}, domain.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "customers_gst_2025-06-18_09-30-00.csv", file.Filename)
	assert.Equal(t, 1, file.Rows)
}

func TestExportService_ArchivesWhenEnabled(t *testing.T) {
	f := newFixture()
	storage := new(mocks.MockObjectStorage)
	svc := newExportService(f.store, storage, service.ArchiveOptions{Enabled: true, Bucket: "exports-bucket", Prefix: "exports"})

	wantKey := "exports/" + f.u1.String() + "/gst/products_gst_2025-06-18_09-30-00.xlsx"
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "exports-bucket" && in.Key == wantKey && in.ContentType == export.ContentTypeXLSX && in.Size > 0 &&
			in.Metadata["entity"] == "product" && in.Metadata["variant"] == "gst"
	})).Return(&port.UploadOutput{Location: "s3://exports-bucket/" + wantKey}, nil)

	_, err := svc.ExportProducts(context.Background(), domain.ProductFilter{UserID: f.u1, Variant: domain.VariantGST}, domain.FormatXLSX)
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestExportService_ArchiveFailureDoesNotFailExport(t *testing.T) {
	f := newFixture()
	storage := new(mocks.MockObjectStorage)
	svc := newExportService(f.store, storage, service.ArchiveOptions{Enabled: true, Bucket: "b", Prefix: "exports"})

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	file, err := svc.ExportInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST}, domain.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 5, file.Rows)
}
