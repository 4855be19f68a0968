package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"businessathi/internal/domain"
	"businessathi/internal/export"
	"businessathi/internal/metrics"
	"businessathi/internal/port"
	"businessathi/internal/query"
)

// ArchiveOptions controls copying finished exports to object storage.
type ArchiveOptions struct {
	Enabled bool
	Bucket  string
	Prefix  string
}

// ExportService serializes filtered invoices, customers and products. Each
// method accepts either format; exports larger than the configured row cap
// are rejected rather than truncated.
type ExportService interface {
	ExportInvoices(ctx context.Context, f domain.InvoiceFilter, format domain.ExportFormat) (*domain.ExportFile, error)
	ExportCustomers(ctx context.Context, f domain.CustomerFilter, format domain.ExportFormat) (*domain.ExportFile, error)
	ExportProducts(ctx context.Context, f domain.ProductFilter, format domain.ExportFormat) (*domain.ExportFile, error)
}

type exportService struct {
	invoices  port.InvoiceRepository
	customers port.CustomerRepository
	products  port.ProductRepository
	storage   port.ObjectStorage
	opts      ReportOptions
	archive   ArchiveOptions
	now       func() time.Time
	log       zerolog.Logger
}

// NewExportService creates a new ExportService implementation. storage may be
// nil when archiving is disabled.
func NewExportService(
	invoices port.InvoiceRepository,
	customers port.CustomerRepository,
	products port.ProductRepository,
	storage port.ObjectStorage,
	opts ReportOptions,
	archive ArchiveOptions,
	now func() time.Time,
	log zerolog.Logger,
) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{
		invoices:  invoices,
		customers: customers,
		products:  products,
		storage:   storage,
		opts:      opts,
		archive:   archive,
		now:       now,
		log:       log.With().Str("component", "export").Logger(),
	}
}

func (s *exportService) ExportInvoices(ctx context.Context, f domain.InvoiceFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	format, err := domain.ParseExportFormat(string(format))
	if err != nil {
		return nil, err
	}
	q, err := exportInvoiceQuery(f, s.opts.MaxExportRows)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Str("format", string(format)).Logger()
	const message = "failed to export invoices"

	total, err := s.invoices.CountInvoices(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportInvoices", message, err)
	}
	if err := s.checkSize(domain.EntityInvoice, total); err != nil {
		return nil, err
	}

	raws, err := s.invoices.FindInvoices(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportInvoices", message, err)
	}
	records, err := normalizeAll(log, raws, q.Variant, s.opts.SkipDangling)
	if err != nil {
		return nil, err
	}

	var file *domain.ExportFile
	if format == domain.FormatCSV {
		file, err = export.InvoicesToCSV(records, q.Variant, s.now())
	} else {
		file, err = export.InvoicesToXLSX(records, q.Variant, s.now())
	}
	if err != nil {
		return nil, s.serializationFailure(log, "ExportInvoices", message, err)
	}
	s.finish(ctx, log, domain.EntityInvoice, q, format, file)
	return file, nil
}

func (s *exportService) ExportCustomers(ctx context.Context, f domain.CustomerFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	format, err := domain.ParseExportFormat(string(format))
	if err != nil {
		return nil, err
	}
	f.Page, f.PageSize = 1, s.opts.MaxExportRows
	q, err := query.Customers(f, s.exportLimits())
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Str("format", string(format)).Logger()
	const message = "failed to export customers"

	total, err := s.customers.CountCustomers(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportCustomers", message, err)
	}
	if err := s.checkSize(domain.EntityCustomer, total); err != nil {
		return nil, err
	}

	customers, err := s.customers.FindCustomers(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportCustomers", message, err)
	}

	var file *domain.ExportFile
	if format == domain.FormatCSV {
		file, err = export.CustomersToCSV(customers, q.Variant, s.now())
	} else {
		file, err = export.CustomersToXLSX(customers, q.Variant, s.now())
	}
	if err != nil {
		return nil, s.serializationFailure(log, "ExportCustomers", message, err)
	}
	s.finish(ctx, log, domain.EntityCustomer, q, format, file)
	return file, nil
}

func (s *exportService) ExportProducts(ctx context.Context, f domain.ProductFilter, format domain.ExportFormat) (*domain.ExportFile, error) {
	format, err := domain.ParseExportFormat(string(format))
	if err != nil {
		return nil, err
	}
	f.Page, f.PageSize = 1, s.opts.MaxExportRows
	q, err := query.Products(f, s.exportLimits())
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Str("format", string(format)).Logger()
	const message = "failed to export products"

	total, err := s.products.CountProducts(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportProducts", message, err)
	}
	if err := s.checkSize(domain.EntityProduct, total); err != nil {
		return nil, err
	}

	products, err := s.products.FindProducts(ctx, q)
	if err != nil {
		return nil, fail(log, "ExportProducts", message, err)
	}

	var file *domain.ExportFile
	if format == domain.FormatCSV {
		file, err = export.ProductsToCSV(products, q.Variant, s.now())
	} else {
		file, err = export.ProductsToXLSX(products, q.Variant, s.now())
	}
	if err != nil {
		return nil, s.serializationFailure(log, "ExportProducts", message, err)
	}
	s.finish(ctx, log, domain.EntityProduct, q, format, file)
	return file, nil
}

func (s *exportService) exportLimits() query.Limits {
	return query.Limits{DefaultPageSize: s.opts.MaxExportRows, MaxPageSize: s.opts.MaxExportRows}
}

func (s *exportService) checkSize(entity domain.Entity, total int) error {
	if total == 0 {
		return &domain.NothingToExportError{Entity: entity}
	}
	if total > s.opts.MaxExportRows {
		return fmt.Errorf("%w: %d %ss match, limit is %d", domain.ErrExportTooLarge, total, entity, s.opts.MaxExportRows)
	}
	return nil
}

// serializationFailure passes "nothing to export" through; it happens when
// every matching invoice was skipped during normalization.
func (s *exportService) serializationFailure(log zerolog.Logger, op, message string, err error) error {
	if errors.Is(err, domain.ErrNothingToExport) {
		return err
	}
	return fail(log, op, message, err)
}

// finish records metrics and, when enabled, archives the file. Archive
// failures are logged and never fail the export.
func (s *exportService) finish(ctx context.Context, log zerolog.Logger, entity domain.Entity, q query.Query, format domain.ExportFormat, file *domain.ExportFile) {
	metrics.ExportsTotal.WithLabelValues(string(entity), string(q.Variant), string(format)).Inc()
	metrics.ExportRows.WithLabelValues(string(entity), string(q.Variant)).Observe(float64(file.Rows))
	log.Info().Str("entity", string(entity)).Int("rows", file.Rows).Str("filename", file.Filename).Msg("export completed")

	if !s.archive.Enabled || s.storage == nil {
		return
	}
	key := path.Join(s.archive.Prefix, q.UserID.String(), string(q.Variant), file.Filename)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.archive.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Content),
		ContentType: file.ContentType,
		Size:        int64(len(file.Content)),
		Metadata: map[string]string{
			"entity":  string(entity),
			"variant": string(q.Variant),
			"rows":    strconv.Itoa(file.Rows),
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("export archive upload failed")
		return
	}
	log.Debug().Str("location", out.Location).Msg("export archived")
}
