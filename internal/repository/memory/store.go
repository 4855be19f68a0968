// Package memory is an in-process storage adapter. It evaluates the same
// query trees the Postgres adapter renders to SQL and backs the CLI demo
// mode and service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/query"
)

var (
	_ port.InvoiceRepository  = (*Store)(nil)
	_ port.CustomerRepository = (*Store)(nil)
	_ port.ProductRepository  = (*Store)(nil)
)

// Store holds both variants' data. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	gstInvoices   []domain.GSTInvoice
	localInvoices []domain.LocalInvoice
	gstLines      []domain.GSTPricedProduct
	localLines    []domain.LocalPricedProduct
	customers     map[domain.Variant][]domain.Customer
	products      map[domain.Variant][]domain.Product
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		customers: make(map[domain.Variant][]domain.Customer),
		products:  make(map[domain.Variant][]domain.Product),
	}
}

// AddCustomer stores a customer of variant v.
func (s *Store) AddCustomer(v domain.Variant, c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[v] = append(s.customers[v], c)
}

// AddProduct stores a product of variant v.
func (s *Store) AddProduct(v domain.Variant, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[v] = append(s.products[v], p)
}

// AddGSTInvoice stores a GST invoice and its line items.
func (s *Store) AddGSTInvoice(inv domain.GSTInvoice, lines ...domain.GSTPricedProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gstInvoices = append(s.gstInvoices, inv)
	for _, l := range lines {
		l.InvoiceID = inv.ID
		s.gstLines = append(s.gstLines, l)
	}
}

// AddLocalInvoice stores a Local invoice and its line items.
func (s *Store) AddLocalInvoice(inv domain.LocalInvoice, lines ...domain.LocalPricedProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localInvoices = append(s.localInvoices, inv)
	for _, l := range lines {
		l.InvoiceID = inv.ID
		s.localLines = append(s.localLines, l)
	}
}

func (s *Store) findCustomer(v domain.Variant, userID, id uuid.UUID) *domain.Customer {
	for i := range s.customers[v] {
		c := s.customers[v][i]
		if c.ID == id && c.UserID == userID {
			return &c
		}
	}
	return nil
}

func (s *Store) findProduct(v domain.Variant, userID, id uuid.UUID) *domain.Product {
	for i := range s.products[v] {
		p := s.products[v][i]
		if p.ID == id && p.UserID == userID {
			return &p
		}
	}
	return nil
}

func customerFields(r record, c *domain.Customer) {
	if c == nil {
		return
	}
	r.set(domain.RelCustomer, "id", c.ID)
	r.set(domain.RelCustomer, "user_id", c.UserID)
	r.set(domain.RelCustomer, "customer_name", c.CustomerName)
	r.set(domain.RelCustomer, "address", c.Address)
	r.set(domain.RelCustomer, "created_at", c.CreatedAt)
	r.set(domain.RelCustomer, "updated_at", c.UpdatedAt)
	if c.GSTIn != nil {
		r.set(domain.RelCustomer, "gst_in", *c.GSTIn)
	}
	if c.State != nil {
		r.set(domain.RelCustomer, "state", *c.State)
	}
	if c.StateCode != nil {
		r.set(domain.RelCustomer, "state_code", int64(*c.StateCode))
	}
}

func productFields(p *domain.Product) record {
	r := record{}
	r.set(domain.RelProduct, "id", p.ID)
	r.set(domain.RelProduct, "user_id", p.UserID)
	r.set(domain.RelProduct, "product_name", p.ProductName)
	r.set(domain.RelProduct, "created_at", p.CreatedAt)
	r.set(domain.RelProduct, "updated_at", p.UpdatedAt)
	if p.HSNCode != nil {
		r.set(domain.RelProduct, "hsn_code", *p.HSNCode)
	}
	if p.CGSTRate != nil {
		r.set(domain.RelProduct, "cgst_rate", *p.CGSTRate)
	}
	if p.SGSTRate != nil {
		r.set(domain.RelProduct, "sgst_rate", *p.SGSTRate)
	}
	return r
}

// invoiceRow is a candidate invoice with its flattened record.
type invoiceRow struct {
	rec   record
	gst   *domain.GSTInvoice
	local *domain.LocalInvoice
}

func (s *Store) invoiceRows(v domain.Variant) []invoiceRow {
	var rows []invoiceRow
	if v == domain.VariantGST {
		for i := range s.gstInvoices {
			inv := s.gstInvoices[i]
			r := record{}
			r.set(domain.RelInvoice, "id", inv.ID)
			r.set(domain.RelInvoice, "user_id", inv.UserID)
			r.set(domain.RelInvoice, "invoice_no", inv.InvoiceNo)
			r.set(domain.RelInvoice, "invoice_date", inv.InvoiceDate)
			r.set(domain.RelInvoice, "month_of", inv.MonthOf)
			r.set(domain.RelInvoice, "year_of", inv.YearOf)
			r.set(domain.RelInvoice, "customer_id", inv.CustomerID)
			r.set(domain.RelInvoice, "total_invoice_value", inv.TotalInvoiceValue)
			r.set(domain.RelInvoice, "total_tax_gst", inv.TotalTaxGST)
			r.set(domain.RelInvoice, "total_taxable_value", inv.TotalTaxableValue)
			r.set(domain.RelInvoice, "is_outside_delhi_invoice", inv.IsOutsideDelhiInvoice)
			r.set(domain.RelInvoice, "created_at", inv.CreatedAt)
			r.set(domain.RelInvoice, "updated_at", inv.UpdatedAt)
			customerFields(r, s.findCustomer(v, inv.UserID, inv.CustomerID))
			rows = append(rows, invoiceRow{rec: r, gst: &inv})
		}
		return rows
	}
	for i := range s.localInvoices {
		inv := s.localInvoices[i]
		r := record{}
		r.set(domain.RelInvoice, "id", inv.ID)
		r.set(domain.RelInvoice, "user_id", inv.UserID)
		r.set(domain.RelInvoice, "local_invoice_no", inv.LocalInvoiceNo)
		r.set(domain.RelInvoice, "local_invoice_date", inv.LocalInvoiceDate)
		r.set(domain.RelInvoice, "month_of", inv.MonthOf)
		r.set(domain.RelInvoice, "year_of", inv.YearOf)
		r.set(domain.RelInvoice, "customer_id", inv.CustomerID)
		r.set(domain.RelInvoice, "local_total_invoice_value", inv.LocalTotalInvoiceValue)
		r.set(domain.RelInvoice, "created_at", inv.CreatedAt)
		r.set(domain.RelInvoice, "updated_at", inv.UpdatedAt)
		customerFields(r, s.findCustomer(v, inv.UserID, inv.CustomerID))
		rows = append(rows, invoiceRow{rec: r, local: &inv})
	}
	return rows
}

// selectRows filters, sorts and windows rows by the query.
func selectRows[T any](rows []T, rec func(T) record, q query.Query, window bool) []T {
	matched := make([]T, 0, len(rows))
	for _, r := range rows {
		if rec(r).matches(q.Where) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(rec(matched[i]), rec(matched[j]), q.OrderBy)
	})
	if !window || q.Window.Limit <= 0 {
		return matched
	}
	if q.Window.Offset >= len(matched) {
		return matched[:0]
	}
	end := q.Window.Offset + q.Window.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Window.Offset:end]
}

func rowRecord(r invoiceRow) record { return r.rec }

func (s *Store) FindInvoices(ctx context.Context, q query.Query) ([]domain.RawInvoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := selectRows(s.invoiceRows(q.Variant), rowRecord, q, true)
	out := make([]domain.RawInvoice, 0, len(rows))
	for _, r := range rows {
		if r.gst != nil {
			rec := &domain.GSTInvoiceRecord{Invoice: *r.gst, Customer: s.findCustomer(q.Variant, r.gst.UserID, r.gst.CustomerID)}
			for _, l := range s.gstLines {
				if l.InvoiceID == r.gst.ID {
					rec.Lines = append(rec.Lines, domain.GSTLine{Item: l, Product: s.findProduct(q.Variant, r.gst.UserID, l.ProductID)})
				}
			}
			out = append(out, domain.RawInvoice{GST: rec})
			continue
		}
		rec := &domain.LocalInvoiceRecord{Invoice: *r.local, Customer: s.findCustomer(q.Variant, r.local.UserID, r.local.CustomerID)}
		for _, l := range s.localLines {
			if l.InvoiceID == r.local.ID {
				rec.Lines = append(rec.Lines, domain.LocalLine{Item: l, Product: s.findProduct(q.Variant, r.local.UserID, l.ProductID)})
			}
		}
		out = append(out, domain.RawInvoice{Local: rec})
	}
	return out, nil
}

func (s *Store) CountInvoices(ctx context.Context, q query.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(selectRows(s.invoiceRows(q.Variant), rowRecord, q, false)), nil
}

func (s *Store) ListInvoiceIDs(ctx context.Context, q query.Query) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := selectRows(s.invoiceRows(q.Variant), rowRecord, q, true)
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.rec[domain.Field{Relation: domain.RelInvoice, Column: "id"}].(uuid.UUID))
	}
	return ids, nil
}

func (s *Store) DistinctMonths(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var months []string
	add := func(owner uuid.UUID, m string) {
		if owner == userID && m != "" && !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	if v == domain.VariantGST {
		for _, inv := range s.gstInvoices {
			add(inv.UserID, inv.MonthOf)
		}
	} else {
		for _, inv := range s.localInvoices {
			add(inv.UserID, inv.MonthOf)
		}
	}
	sort.Strings(months)
	return months, nil
}

func (s *Store) ListInvoiceAmounts(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.InvoiceAmount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.InvoiceAmount
	if v == domain.VariantGST {
		for _, inv := range s.gstInvoices {
			if inv.UserID == userID {
				out = append(out, domain.InvoiceAmount{MonthOf: inv.MonthOf, YearOf: inv.YearOf, TotalInvoiceValue: inv.TotalInvoiceValue})
			}
		}
		return out, nil
	}
	for _, inv := range s.localInvoices {
		if inv.UserID == userID {
			out = append(out, domain.InvoiceAmount{MonthOf: inv.MonthOf, YearOf: inv.YearOf, TotalInvoiceValue: inv.LocalTotalInvoiceValue})
		}
	}
	return out, nil
}

func customerRecord(c domain.Customer) record {
	r := record{}
	customerFields(r, &c)
	return r
}

func (s *Store) FindCustomers(ctx context.Context, q query.Query) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return selectRows(append([]domain.Customer(nil), s.customers[q.Variant]...), customerRecord, q, true), nil
}

func (s *Store) CountCustomers(ctx context.Context, q query.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(selectRows(s.customers[q.Variant], customerRecord, q, false)), nil
}

func (s *Store) ListCustomerOptions(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.CustomerOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.CustomerOption{}
	for _, c := range s.customers[v] {
		if c.UserID == userID {
			out = append(out, domain.CustomerOption{ID: c.ID, CustomerName: c.CustomerName, Address: c.Address})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, nil
}

func productRecord(p domain.Product) record { return productFields(&p) }

func (s *Store) FindProducts(ctx context.Context, q query.Query) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return selectRows(append([]domain.Product(nil), s.products[q.Variant]...), productRecord, q, true), nil
}

func (s *Store) CountProducts(ctx context.Context, q query.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(selectRows(s.products[q.Variant], productRecord, q, false)), nil
}
