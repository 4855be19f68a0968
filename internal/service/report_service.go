package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"businessathi/internal/config"
	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/query"
	"businessathi/internal/report"
)

// ReportOptions bounds listings and lookups.
type ReportOptions struct {
	Limits        query.Limits
	MaxExportRows int
	SkipDangling  bool
	LookupTTL     time.Duration
}

// NewReportOptions derives ReportOptions from configuration.
func NewReportOptions(rc config.ReportConfig, redis config.RedisConfig) ReportOptions {
	return ReportOptions{
		Limits:        query.Limits{DefaultPageSize: rc.DefaultPageSize, MaxPageSize: rc.MaxPageSize},
		MaxExportRows: rc.MaxExportRows,
		SkipDangling:  rc.SkipDangling,
		LookupTTL:     redis.LookupTTL,
	}
}

// DefaultReportOptions returns the built-in limits.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Limits: query.DefaultLimits(), MaxExportRows: 10000, LookupTTL: 5 * time.Minute}
}

// ReportService serves filtered listings and filter lookups for both
// invoicing variants.
type ReportService interface {
	FilterInvoices(ctx context.Context, f domain.InvoiceFilter) (*domain.InvoicePage, error)
	FilterCustomers(ctx context.Context, f domain.CustomerFilter) (*domain.CustomerPage, error)
	FilterProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error)
	GetUniqueMonths(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]string, error)
	GetUniqueCustomers(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]domain.CustomerOption, error)
	// ListInvoiceIDs returns the ids of every invoice matching f, ignoring
	// pagination, for the bulk PDF download.
	ListInvoiceIDs(ctx context.Context, f domain.InvoiceFilter) ([]uuid.UUID, error)
}

type reportService struct {
	invoices  port.InvoiceRepository
	customers port.CustomerRepository
	products  port.ProductRepository
	cache     port.LookupCache
	opts      ReportOptions
	log       zerolog.Logger
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	invoices port.InvoiceRepository,
	customers port.CustomerRepository,
	products port.ProductRepository,
	cache port.LookupCache,
	opts ReportOptions,
	log zerolog.Logger,
) ReportService {
	return &reportService{
		invoices:  invoices,
		customers: customers,
		products:  products,
		cache:     cache,
		opts:      opts,
		log:       log.With().Str("component", "report").Logger(),
	}
}

func (s *reportService) FilterInvoices(ctx context.Context, f domain.InvoiceFilter) (*domain.InvoicePage, error) {
	q, err := query.Invoices(f, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Logger()

	total, err := s.invoices.CountInvoices(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterInvoices", "failed to filter invoices", err)
	}
	raws, err := s.invoices.FindInvoices(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterInvoices", "failed to filter invoices", err)
	}
	records, err := normalizeAll(log, raws, q.Variant, s.opts.SkipDangling)
	if err != nil {
		return nil, err
	}

	return &domain.InvoicePage{
		Invoices:    records,
		TotalCount:  total,
		PageCount:   domain.PageCount(total, q.PageSize),
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (s *reportService) FilterCustomers(ctx context.Context, f domain.CustomerFilter) (*domain.CustomerPage, error) {
	q, err := query.Customers(f, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Logger()

	total, err := s.customers.CountCustomers(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterCustomers", "failed to filter customers", err)
	}
	customers, err := s.customers.FindCustomers(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterCustomers", "failed to filter customers", err)
	}

	return &domain.CustomerPage{
		Customers:   customers,
		TotalCount:  total,
		PageCount:   domain.PageCount(total, q.PageSize),
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (s *reportService) FilterProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	q, err := query.Products(f, s.opts.Limits)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Logger()

	total, err := s.products.CountProducts(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterProducts", "failed to filter products", err)
	}
	products, err := s.products.FindProducts(ctx, q)
	if err != nil {
		return nil, fail(log, "FilterProducts", "failed to filter products", err)
	}

	return &domain.ProductPage{
		Products:    products,
		TotalCount:  total,
		PageCount:   domain.PageCount(total, q.PageSize),
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (s *reportService) GetUniqueMonths(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]string, error) {
	variant, err := lookupArgs(userID, v)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("lookup:months:%s:%s", variant, userID)
	var months []string
	if s.cached(ctx, key, &months) {
		return months, nil
	}

	raw, err := s.invoices.DistinctMonths(ctx, variant, userID)
	if err != nil {
		return nil, fail(s.log, "GetUniqueMonths", "failed to load months", err)
	}
	months = report.SortMonths(raw)
	s.store(ctx, key, months)
	return months, nil
}

func (s *reportService) GetUniqueCustomers(ctx context.Context, userID uuid.UUID, v domain.Variant) ([]domain.CustomerOption, error) {
	variant, err := lookupArgs(userID, v)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("lookup:customers:%s:%s", variant, userID)
	var options []domain.CustomerOption
	if s.cached(ctx, key, &options) {
		return options, nil
	}

	options, err = s.customers.ListCustomerOptions(ctx, variant, userID)
	if err != nil {
		return nil, fail(s.log, "GetUniqueCustomers", "failed to load customers", err)
	}
	s.store(ctx, key, options)
	return options, nil
}

func (s *reportService) ListInvoiceIDs(ctx context.Context, f domain.InvoiceFilter) ([]uuid.UUID, error) {
	q, err := exportInvoiceQuery(f, s.opts.MaxExportRows)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", f.UserID.String()).Str("variant", string(q.Variant)).Logger()

	total, err := s.invoices.CountInvoices(ctx, q)
	if err != nil {
		return nil, fail(log, "ListInvoiceIDs", "failed to list invoices", err)
	}
	if total > s.opts.MaxExportRows {
		return nil, fmt.Errorf("%w: %d invoices match, limit is %d", domain.ErrExportTooLarge, total, s.opts.MaxExportRows)
	}
	ids, err := s.invoices.ListInvoiceIDs(ctx, q)
	if err != nil {
		return nil, fail(log, "ListInvoiceIDs", "failed to list invoices", err)
	}
	return ids, nil
}

func (s *reportService) cached(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}
	return true
}

func (s *reportService) store(ctx context.Context, key string, v interface{}) {
	if s.cache == nil || s.opts.LookupTTL <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, data, s.opts.LookupTTL)
}

func lookupArgs(userID uuid.UUID, v domain.Variant) (domain.Variant, error) {
	if userID == uuid.Nil {
		return "", domain.ErrMissingUserID
	}
	return domain.ParseVariant(string(v))
}

// exportInvoiceQuery builds an unpaginated invoice query capped at maxRows.
func exportInvoiceQuery(f domain.InvoiceFilter, maxRows int) (query.Query, error) {
	f.Page, f.PageSize = 1, maxRows
	return query.Invoices(f, query.Limits{DefaultPageSize: maxRows, MaxPageSize: maxRows})
}
