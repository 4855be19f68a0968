package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"businessathi/internal/cache"
	"businessathi/internal/domain"
	"businessathi/internal/repository/memory"
	"businessathi/internal/service"
	"businessathi/mocks"
)

var fixedNow = time.Date(2025, time.June, 18, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	u1    uuid.UUID
	u2    uuid.UUID
}

func addGSTCustomer(s *memory.Store, userID uuid.UUID, name, address string) domain.Customer {
	gstin := "07ABCDE1234F1Z5"
	state := "Delhi"
	code := 7
	c := domain.Customer{ID: uuid.New(), UserID: userID, CustomerName: name, Address: address, GSTIn: &gstin, State: &state, StateCode: &code, CreatedAt: fixedNow}
	s.AddCustomer(domain.VariantGST, c)
	return c
}

func addGSTInvoice(s *memory.Store, userID uuid.UUID, no int64, c domain.Customer, p domain.Product, month string) domain.GSTInvoice {
	inv := domain.GSTInvoice{
		ID: uuid.New(), UserID: userID, InvoiceNo: no, InvoiceDate: fixedNow,
		MonthOf: month, YearOf: "2025", CustomerID: c.ID,
		TotalInvoiceValue: "1180.00", TotalTaxGST: "180.00", TotalTaxableValue: "1000.00",
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	nine := decimal.NewFromInt(9)
	s.AddGSTInvoice(inv, domain.GSTPricedProduct{
		ID: uuid.New(), ProductID: p.ID, Qty: 1, Rate: decimal.NewFromInt(1000),
		TaxableValue: "1000.00", CGSTAmt: "90.00", SGSTAmt: "90.00", ProductTotalValue: "1180.00",
		CGSTRate: nine, SGSTRate: nine,
	})
	return inv
}

func addGSTProduct(s *memory.Store, userID uuid.UUID, name string) domain.Product {
	nine := decimal.NewFromInt(9)
	hsn := int64(8471)
	p := domain.Product{ID: uuid.New(), UserID: userID, ProductName: name, HSNCode: &hsn, CGSTRate: &nine, SGSTRate: &nine, CreatedAt: fixedNow}
	s.AddProduct(domain.VariantGST, p)
	return p
}

// newFixture creates two tenants. u1 has invoices 1..5 where 2 and 4 belong
// to "Titan Industries"; u2 has one Titan invoice of its own.
func newFixture() fixture {
	s := memory.NewStore()
	f := fixture{store: s, u1: uuid.New(), u2: uuid.New()}

	titan := addGSTCustomer(s, f.u1, "Titan Industries", "Karol Bagh, Delhi")
	other := addGSTCustomer(s, f.u1, "Mehta & Sons", "Sector 18, Noida")
	p := addGSTProduct(s, f.u1, "Router")
	for no := int64(1); no <= 5; no++ {
		c := other
		if no%2 == 0 {
			c = titan
		}
		month := "June"
		if no == 1 {
			month = "March"
		}
		addGSTInvoice(s, f.u1, no, c, p, month)
	}

	titan2 := addGSTCustomer(s, f.u2, "TITAN Retail", "Pune")
	p2 := addGSTProduct(s, f.u2, "Switch")
	addGSTInvoice(s, f.u2, 9, titan2, p2, "June")
	return f
}

func newReportService(f fixture) service.ReportService {
	return service.NewReportService(f.store, f.store, f.store, cache.Noop{}, service.DefaultReportOptions(), zerolog.Nop())
}

func TestReportService_FilterInvoices_SearchScenario(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	page, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{
		UserID: f.u1, Variant: domain.VariantGST, GlobalSearch: "titan", Page: 1, PageSize: 15,
	})
	require.NoError(t, err)

	require.Len(t, page.Invoices, 2)
	assert.Equal(t, int64(4), page.Invoices[0].InvoiceNo)
	assert.Equal(t, int64(2), page.Invoices[1].InvoiceNo)
	for _, rec := range page.Invoices {
		assert.Equal(t, "Titan Industries", rec.CustomerName)
		assert.Equal(t, domain.VariantGST, rec.Variant)
	}
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.PageCount)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestReportService_FilterInvoices_PageProperties(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	for _, size := range []int{1, 2, 3, 5, 7} {
		page, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{
			UserID: f.u1, Variant: domain.VariantGST, Page: 1, PageSize: size,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Invoices), size)
		assert.Equal(t, 5, page.TotalCount)
		assert.Equal(t, (5+size-1)/size, page.PageCount)
	}
}

func TestReportService_FilterInvoices_Idempotent(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)
	filter := domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST, SortBy: "customer.customerName", SortOrder: domain.SortAsc}

	first, err := svc.FilterInvoices(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.FilterInvoices(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReportService_FilterInvoices_TenantIsolation(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	page, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u2, Variant: domain.VariantGST})
	require.NoError(t, err)
	require.Len(t, page.Invoices, 1)
	assert.Equal(t, int64(9), page.Invoices[0].InvoiceNo)

	page, err = svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u2, Variant: domain.VariantLocal})
	require.NoError(t, err)
	assert.Empty(t, page.Invoices)
	assert.Equal(t, 0, page.PageCount)
}

func TestReportService_FilterInvoices_TotalsInvariant(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	page, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST})
	require.NoError(t, err)
	for _, rec := range page.Invoices {
		taxable, ok := domain.ParseAmount(*rec.TotalTaxableValue)
		require.True(t, ok)
		tax, ok := domain.ParseAmount(*rec.TotalTaxGST)
		require.True(t, ok)
		total, ok := domain.ParseAmount(rec.TotalInvoiceValue)
		require.True(t, ok)
		assert.True(t, domain.ApproxEqual(taxable.Add(tax), total))
	}
}

func TestReportService_FilterInvoices_ValidationSkipsStorage(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewReportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), cache.Noop{}, service.DefaultReportOptions(), zerolog.Nop())

	cases := []struct {
		name   string
		filter domain.InvoiceFilter
		want   error
	}{
		{"missing user", domain.InvoiceFilter{Variant: domain.VariantGST}, domain.ErrMissingUserID},
		{"bad variant", domain.InvoiceFilter{UserID: uuid.New(), Variant: "export"}, domain.ErrInvalidVariant},
		{"bad sort key", domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, SortBy: "password"}, domain.ErrInvalidSortKey},
		{"page too large", domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, PageSize: 1000}, domain.ErrInvalidPagination},
		{"page offset overflows", domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, Page: math.MaxInt/15 + 2, PageSize: 15}, domain.ErrInvalidPagination},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.FilterInvoices(context.Background(), tc.filter)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	repo.AssertNotCalled(t, "CountInvoices", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindInvoices", mock.Anything, mock.Anything)
}

func TestReportService_FilterInvoices_StorageErrorIsTranslated(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewReportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), cache.Noop{}, service.DefaultReportOptions(), zerolog.Nop())

	repo.On("CountInvoices", mock.Anything, mock.Anything).Return(0, errors.New("pq: connection refused"))

	_, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantLocal})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Equal(t, "failed to filter invoices", err.Error())
	assert.NotContains(t, err.Error(), "pq")
}

func TestReportService_FilterInvoices_CanceledPassesThrough(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	svc := service.NewReportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), cache.Noop{}, service.DefaultReportOptions(), zerolog.Nop())

	repo.On("CountInvoices", mock.Anything, mock.Anything).Return(0, context.Canceled)

	_, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST})
	assert.ErrorIs(t, err, context.Canceled)
}

func danglingFixture() (*memory.Store, uuid.UUID) {
	s := memory.NewStore()
	userID := uuid.New()
	c := domain.Customer{ID: uuid.New(), UserID: userID, CustomerName: "Known", Address: "Delhi"}
	s.AddCustomer(domain.VariantLocal, c)
	s.AddLocalInvoice(domain.LocalInvoice{ID: uuid.New(), UserID: userID, LocalInvoiceNo: 1, CustomerID: c.ID, LocalTotalInvoiceValue: "0.00"})
	s.AddLocalInvoice(domain.LocalInvoice{ID: uuid.New(), UserID: userID, LocalInvoiceNo: 2, CustomerID: uuid.New(), LocalTotalInvoiceValue: "0.00"})
	return s, userID
}

func TestReportService_FilterInvoices_DanglingCustomerAborts(t *testing.T) {
	s, userID := danglingFixture()
	svc := service.NewReportService(s, s, s, nil, service.DefaultReportOptions(), zerolog.Nop())

	_, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: userID, Variant: domain.VariantLocal})
	var ie *domain.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "customer", ie.Reference)
}

func TestReportService_FilterInvoices_DanglingCustomerSkipped(t *testing.T) {
	s, userID := danglingFixture()
	opts := service.DefaultReportOptions()
	opts.SkipDangling = true
	svc := service.NewReportService(s, s, s, nil, opts, zerolog.Nop())

	page, err := svc.FilterInvoices(context.Background(), domain.InvoiceFilter{UserID: userID, Variant: domain.VariantLocal})
	require.NoError(t, err)
	require.Len(t, page.Invoices, 1)
	assert.Equal(t, int64(1), page.Invoices[0].InvoiceNo)
	assert.Nil(t, page.Invoices[0].TotalTaxGST)
}

func TestReportService_FilterCustomersAndProducts(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	customers, err := svc.FilterCustomers(context.Background(), domain.CustomerFilter{
		UserID: f.u1, Variant: domain.VariantGST, GlobalSearch: "noida", SortBy: "customerName", SortOrder: domain.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, customers.Customers, 1)
	assert.Equal(t, "Mehta & Sons", customers.Customers[0].CustomerName)
	assert.Equal(t, 1, customers.TotalCount)

	products, err := svc.FilterProducts(context.Background(), domain.ProductFilter{UserID: f.u1, Variant: domain.VariantGST, GlobalSearch: "8471"})
	require.NoError(t, err)
	require.Len(t, products.Products, 1)
	assert.Equal(t, "Router", products.Products[0].ProductName)

	_, err = svc.FilterProducts(context.Background(), domain.ProductFilter{UserID: f.u1, Variant: domain.VariantLocal, SortBy: "hsnCode"})
	assert.ErrorIs(t, err, domain.ErrInvalidSortKey)
}

func TestReportService_GetUniqueMonths_CalendarOrder(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	months, err := svc.GetUniqueMonths(context.Background(), f.u1, domain.VariantGST)
	require.NoError(t, err)
	assert.Equal(t, []string{"March", "June"}, months)

	_, err = svc.GetUniqueMonths(context.Background(), uuid.Nil, domain.VariantGST)
	assert.ErrorIs(t, err, domain.ErrMissingUserID)
}

func TestReportService_GetUniqueMonths_CacheHit(t *testing.T) {
	repo := new(mocks.MockInvoiceRepo)
	lookup := new(mocks.MockLookupCache)
	svc := service.NewReportService(repo, new(mocks.MockCustomerRepo), new(mocks.MockProductRepo), lookup, service.DefaultReportOptions(), zerolog.Nop())
	userID := uuid.New()

	lookup.On("Get", mock.Anything, "lookup:months:local:"+userID.String()).Return([]byte(`["April","May"]`), true)

	months, err := svc.GetUniqueMonths(context.Background(), userID, domain.VariantLocal)
	require.NoError(t, err)
	assert.Equal(t, []string{"April", "May"}, months)
	repo.AssertNotCalled(t, "DistinctMonths", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_GetUniqueCustomers_CacheMissStores(t *testing.T) {
	customers := new(mocks.MockCustomerRepo)
	lookup := new(mocks.MockLookupCache)
	svc := service.NewReportService(new(mocks.MockInvoiceRepo), customers, new(mocks.MockProductRepo), lookup, service.DefaultReportOptions(), zerolog.Nop())
	userID := uuid.New()
	key := "lookup:customers:gst:" + userID.String()

	options := []domain.CustomerOption{{ID: uuid.New(), CustomerName: "Acme", Address: "Delhi"}}
	encoded, err := json.Marshal(options)
	require.NoError(t, err)

	lookup.On("Get", mock.Anything, key).Return(nil, false)
	customers.On("ListCustomerOptions", mock.Anything, domain.VariantGST, userID).Return(options, nil)
	lookup.On("Set", mock.Anything, key, encoded, 5*time.Minute).Return()

	got, err := svc.GetUniqueCustomers(context.Background(), userID, domain.VariantGST)
	require.NoError(t, err)
	assert.Equal(t, options, got)
	lookup.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestReportService_ListInvoiceIDs(t *testing.T) {
	f := newFixture()
	svc := newReportService(f)

	ids, err := svc.ListInvoiceIDs(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST, Month: "June", PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, ids, 4)

	opts := service.DefaultReportOptions()
	opts.MaxExportRows = 3
	capped := service.NewReportService(f.store, f.store, f.store, nil, opts, zerolog.Nop())
	_, err = capped.ListInvoiceIDs(context.Background(), domain.InvoiceFilter{UserID: f.u1, Variant: domain.VariantGST})
	assert.ErrorIs(t, err, domain.ErrExportTooLarge)
}
