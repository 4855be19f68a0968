package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"businessathi/internal/domain"
)

// Limits bounds page sizes.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the standard listing limits.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: 15, MaxPageSize: 100}
}

// Invoices builds the query for an invoice listing.
func Invoices(f domain.InvoiceFilter, lim Limits) (Query, error) {
	q, d, err := newQuery(f.Variant, domain.EntityInvoice, f.UserID, f.Page, f.PageSize, lim)
	if err != nil {
		return Query{}, err
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return Query{}, fmt.Errorf("%w: date_from is after date_to", domain.ErrInvalidDateRange)
	}

	if f.Month != "" {
		q.Where = append(q.Where, Eq(domain.Field{Relation: domain.RelInvoice, Column: "month_of"}, f.Month))
	}
	if f.CustomerID != nil {
		q.Where = append(q.Where, Eq(domain.Field{Relation: domain.RelInvoice, Column: "customer_id"}, *f.CustomerID))
	}
	dateField := d.InvoiceField(domain.FieldInvoiceDate)
	if f.DateFrom != nil {
		q.Where = append(q.Where, Gte(dateField, *f.DateFrom))
	}
	if f.DateTo != nil {
		q.Where = append(q.Where, Lte(dateField, *f.DateTo))
	}
	if s := strings.TrimSpace(f.GlobalSearch); s != "" {
		q.Where = append(q.Where, Or{
			ContainsFold(domain.Field{Relation: domain.RelCustomer, Column: "customer_name"}, s),
			ContainsFold(domain.Field{Relation: domain.RelCustomer, Column: "address"}, s),
			ContainsFold(d.InvoiceField(domain.FieldInvoiceNumber), s),
		})
	}

	q.OrderBy, err = ordering(d.InvoiceSorts, f.SortBy, d.DefaultInvoiceSort, f.SortOrder, domain.RelInvoice)
	if err != nil {
		return Query{}, err
	}
	return q, nil
}

// Customers builds the query for a customer listing.
func Customers(f domain.CustomerFilter, lim Limits) (Query, error) {
	q, d, err := newQuery(f.Variant, domain.EntityCustomer, f.UserID, f.Page, f.PageSize, lim)
	if err != nil {
		return Query{}, err
	}

	if s := strings.TrimSpace(f.GlobalSearch); s != "" {
		or := make(Or, 0, len(d.CustomerSearch))
		for _, field := range d.CustomerSearch {
			or = append(or, ContainsFold(field, s))
		}
		q.Where = append(q.Where, or)
	}

	q.OrderBy, err = ordering(d.CustomerSorts, f.SortBy, d.DefaultCustomerSort, f.SortOrder, domain.RelCustomer)
	if err != nil {
		return Query{}, err
	}
	return q, nil
}

// Products builds the query for a product listing. For GST products a
// numeric search term also matches the HSN code exactly.
func Products(f domain.ProductFilter, lim Limits) (Query, error) {
	q, d, err := newQuery(f.Variant, domain.EntityProduct, f.UserID, f.Page, f.PageSize, lim)
	if err != nil {
		return Query{}, err
	}

	if s := strings.TrimSpace(f.GlobalSearch); s != "" {
		or := Or{ContainsFold(domain.Field{Relation: domain.RelProduct, Column: "product_name"}, s)}
		if d.HasProductTax {
			if hsn, convErr := strconv.ParseInt(s, 10, 64); convErr == nil {
				or = append(or, Eq(domain.Field{Relation: domain.RelProduct, Column: "hsn_code"}, hsn))
			}
		}
		q.Where = append(q.Where, or)
	}

	q.OrderBy, err = ordering(d.ProductSorts, f.SortBy, d.DefaultProductSort, f.SortOrder, domain.RelProduct)
	if err != nil {
		return Query{}, err
	}
	return q, nil
}

// newQuery validates the common inputs and seeds the predicate with the
// tenant conjunct, which always comes first.
func newQuery(v domain.Variant, entity domain.Entity, userID uuid.UUID, page, pageSize int, lim Limits) (Query, domain.VariantDescriptor, error) {
	if userID == uuid.Nil {
		return Query{}, domain.VariantDescriptor{}, domain.ErrMissingUserID
	}
	variant, err := domain.ParseVariant(string(v))
	if err != nil {
		return Query{}, domain.VariantDescriptor{}, err
	}
	d := domain.ResolveVariant(variant)

	page, pageSize, err = normalizePage(page, pageSize, lim)
	if err != nil {
		return Query{}, domain.VariantDescriptor{}, err
	}

	q := Query{
		Variant:  variant,
		Entity:   entity,
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
		Window:   Window{Offset: (page - 1) * pageSize, Limit: pageSize},
	}
	q.Where = And{Eq(domain.Field{Relation: q.Root(), Column: "user_id"}, userID)}
	return q, d, nil
}

func normalizePage(page, pageSize int, lim Limits) (normPage, normSize int, err error) {
	if page < 0 {
		return 0, 0, fmt.Errorf("%w: page must not be negative", domain.ErrInvalidPagination)
	}
	if pageSize < 0 {
		return 0, 0, fmt.Errorf("%w: page_size must not be negative", domain.ErrInvalidPagination)
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = lim.DefaultPageSize
	}
	if lim.MaxPageSize > 0 && pageSize > lim.MaxPageSize {
		return 0, 0, fmt.Errorf("%w: page_size must not exceed %d", domain.ErrInvalidPagination, lim.MaxPageSize)
	}
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return 0, 0, fmt.Errorf("%w: page is out of range", domain.ErrInvalidPagination)
	}
	return page, pageSize, nil
}

// ordering resolves sortBy against the allow-list and appends an id
// tie-break so that pages stay stable when sort keys collide.
func ordering(allowed map[string]domain.Field, sortBy, def string, order domain.SortOrder, root domain.Relation) ([]Order, error) {
	if sortBy == "" {
		sortBy = def
	}
	field, ok := allowed[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, sortBy)
	}

	var desc bool
	switch domain.SortOrder(strings.ToLower(string(order))) {
	case "", domain.SortDesc:
		desc = true
	case domain.SortAsc:
		desc = false
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortOrder, order)
	}

	idField := domain.Field{Relation: root, Column: "id"}
	orders := []Order{{Field: field, Desc: desc}}
	if field != idField {
		orders = append(orders, Order{Field: idField})
	}
	return orders, nil
}
