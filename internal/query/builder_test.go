package query_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

func invField(col string) domain.Field {
	return domain.Field{Relation: domain.RelInvoice, Column: col}
}

func TestInvoices_Defaults(t *testing.T) {
	userID := uuid.New()

	q, err := query.Invoices(domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST}, query.DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 15, q.PageSize)
	assert.Equal(t, query.Window{Offset: 0, Limit: 15}, q.Window)
	require.Len(t, q.Where, 1)
	assert.Equal(t, query.Eq(invField("user_id"), userID), q.Where[0])
	assert.Equal(t, []query.Order{
		{Field: invField("invoice_no"), Desc: true},
		{Field: invField("id")},
	}, q.OrderBy)
}

func TestInvoices_LocalDefaultSortUsesLocalNumber(t *testing.T) {
	q, err := query.Invoices(domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantLocal}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, invField("local_invoice_no"), q.OrderBy[0].Field)
	assert.True(t, q.OrderBy[0].Desc)
}

func TestInvoices_TenantConjunctAlwaysFirst(t *testing.T) {
	userID := uuid.New()
	customerID := uuid.New()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	q, err := query.Invoices(domain.InvoiceFilter{
		UserID:       userID,
		Variant:      domain.VariantGST,
		Month:        "January",
		CustomerID:   &customerID,
		DateFrom:     &from,
		DateTo:       &to,
		GlobalSearch: "titan",
	}, query.DefaultLimits())
	require.NoError(t, err)

	require.Len(t, q.Where, 6)
	assert.Equal(t, query.Eq(invField("user_id"), userID), q.Where[0])
	assert.Equal(t, query.Eq(invField("month_of"), "January"), q.Where[1])
	assert.Equal(t, query.Eq(invField("customer_id"), customerID), q.Where[2])
	assert.Equal(t, query.Gte(invField("invoice_date"), from), q.Where[3])
	assert.Equal(t, query.Lte(invField("invoice_date"), to), q.Where[4])
}

func TestInvoices_GlobalSearch(t *testing.T) {
	tests := []struct {
		name      string
		variant   domain.Variant
		numberCol string
	}{
		{"gst", domain.VariantGST, "invoice_no"},
		{"local", domain.VariantLocal, "local_invoice_no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := query.Invoices(domain.InvoiceFilter{
				UserID:       uuid.New(),
				Variant:      tt.variant,
				GlobalSearch: "  Titan ",
			}, query.DefaultLimits())
			require.NoError(t, err)

			require.Len(t, q.Where, 2)
			assert.Equal(t, query.Or{
				query.ContainsFold(domain.Field{Relation: domain.RelCustomer, Column: "customer_name"}, "Titan"),
				query.ContainsFold(domain.Field{Relation: domain.RelCustomer, Column: "address"}, "Titan"),
				query.ContainsFold(invField(tt.numberCol), "Titan"),
			}, q.Where[1])
		})
	}
}

func TestInvoices_DateFromOnly(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	q, err := query.Invoices(domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantLocal, DateFrom: &from}, query.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, q.Where, 2)
	assert.Equal(t, query.Gte(invField("local_invoice_date"), from), q.Where[1])
}

func TestInvoices_SortKeys(t *testing.T) {
	tests := []struct {
		name    string
		variant domain.Variant
		sortBy  string
		order   domain.SortOrder
		want    domain.Field
		desc    bool
	}{
		{"customer name joins customer", domain.VariantGST, "customer.customerName", domain.SortAsc, domain.Field{Relation: domain.RelCustomer, Column: "customer_name"}, false},
		{"customer address", domain.VariantLocal, "customer.address", domain.SortDesc, domain.Field{Relation: domain.RelCustomer, Column: "address"}, true},
		{"local alias", domain.VariantLocal, "localInvoiceDate", "", invField("local_invoice_date"), true},
		{"shared key on local", domain.VariantLocal, "invoiceNo", "ASC", invField("local_invoice_no"), false},
		{"gst tax total", domain.VariantGST, "totalTaxGST", domain.SortAsc, invField("total_tax_gst"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := query.Invoices(domain.InvoiceFilter{
				UserID:    uuid.New(),
				Variant:   tt.variant,
				SortBy:    tt.sortBy,
				SortOrder: tt.order,
			}, query.DefaultLimits())
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.OrderBy[0].Field)
			assert.Equal(t, tt.desc, q.OrderBy[0].Desc)
			assert.Equal(t, invField("id"), q.OrderBy[len(q.OrderBy)-1].Field)
		})
	}
}

func TestInvoices_ValidationErrors(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name   string
		filter domain.InvoiceFilter
		want   error
	}{
		{"missing user", domain.InvoiceFilter{Variant: domain.VariantGST}, domain.ErrMissingUserID},
		{"bad variant", domain.InvoiceFilter{UserID: userID, Variant: "export"}, domain.ErrInvalidVariant},
		{"unknown sort key", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, SortBy: "password"}, domain.ErrInvalidSortKey},
		{"gst-only sort key on local", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantLocal, SortBy: "totalTaxGST"}, domain.ErrInvalidSortKey},
		{"bad sort order", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, SortOrder: "sideways"}, domain.ErrInvalidSortOrder},
		{"negative page", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, Page: -1}, domain.ErrInvalidPagination},
		{"negative page size", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, PageSize: -5}, domain.ErrInvalidPagination},
		{"page size over max", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, PageSize: 101}, domain.ErrInvalidPagination},
		{"page offset overflows", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, Page: math.MaxInt/15 + 2, PageSize: 15}, domain.ErrInvalidPagination},
		{"inverted date range", domain.InvoiceFilter{UserID: userID, Variant: domain.VariantGST, DateFrom: &from, DateTo: &to}, domain.ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.Invoices(tt.filter, query.DefaultLimits())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInvoices_Window(t *testing.T) {
	q, err := query.Invoices(domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, Page: 3, PageSize: 20}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, query.Window{Offset: 40, Limit: 20}, q.Window)
}

func TestInvoices_LargestAddressablePage(t *testing.T) {
	page := math.MaxInt/20 + 1
	q, err := query.Invoices(domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, Page: page, PageSize: 20}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, (page-1)*20, q.Window.Offset)
	assert.GreaterOrEqual(t, q.Window.Offset, 0)

	_, err = query.Customers(domain.CustomerFilter{UserID: uuid.New(), Variant: domain.VariantGST, Page: page + 1, PageSize: 20}, query.DefaultLimits())
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestInvoices_Deterministic(t *testing.T) {
	f := domain.InvoiceFilter{UserID: uuid.New(), Variant: domain.VariantGST, GlobalSearch: "acme", Month: "March"}
	a, err := query.Invoices(f, query.DefaultLimits())
	require.NoError(t, err)
	b, err := query.Invoices(f, query.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCustomers_SearchFieldsPerVariant(t *testing.T) {
	gst, err := query.Customers(domain.CustomerFilter{UserID: uuid.New(), Variant: domain.VariantGST, GlobalSearch: "delhi"}, query.DefaultLimits())
	require.NoError(t, err)
	require.Len(t, gst.Where, 2)
	assert.Len(t, gst.Where[1], 4)
	assert.Equal(t, domain.Field{Relation: domain.RelCustomer, Column: "user_id"}, gst.Where[0].(query.Cond).Field)

	local, err := query.Customers(domain.CustomerFilter{UserID: uuid.New(), Variant: domain.VariantLocal, GlobalSearch: "delhi"}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Len(t, local.Where[1], 2)
}

func TestCustomers_DefaultSortIsCreatedAtDesc(t *testing.T) {
	for _, v := range []domain.Variant{domain.VariantGST, domain.VariantLocal} {
		q, err := query.Customers(domain.CustomerFilter{UserID: uuid.New(), Variant: v}, query.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, domain.Field{Relation: domain.RelCustomer, Column: "created_at"}, q.OrderBy[0].Field)
		assert.True(t, q.OrderBy[0].Desc)
	}
}

func TestProducts_NumericSearchMatchesHSN(t *testing.T) {
	q, err := query.Products(domain.ProductFilter{UserID: uuid.New(), Variant: domain.VariantGST, GlobalSearch: "8471"}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, query.Or{
		query.ContainsFold(domain.Field{Relation: domain.RelProduct, Column: "product_name"}, "8471"),
		query.Eq(domain.Field{Relation: domain.RelProduct, Column: "hsn_code"}, int64(8471)),
	}, q.Where[1])

	q, err = query.Products(domain.ProductFilter{UserID: uuid.New(), Variant: domain.VariantGST, GlobalSearch: "laptop"}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Len(t, q.Where[1], 1)

	q, err = query.Products(domain.ProductFilter{UserID: uuid.New(), Variant: domain.VariantLocal, GlobalSearch: "8471"}, query.DefaultLimits())
	require.NoError(t, err)
	assert.Len(t, q.Where[1], 1)
}

func TestProducts_RejectsTaxSortOnLocal(t *testing.T) {
	_, err := query.Products(domain.ProductFilter{UserID: uuid.New(), Variant: domain.VariantLocal, SortBy: "hsnCode"}, query.DefaultLimits())
	assert.ErrorIs(t, err, domain.ErrInvalidSortKey)
}
