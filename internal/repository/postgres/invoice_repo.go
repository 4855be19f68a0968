package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/query"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

// joinedCustomer holds the LEFT JOINed customer columns; all are NULL when
// the invoice's customer reference does not resolve.
type joinedCustomer struct {
	CID           *uuid.UUID `db:"c_id"`
	CUserID       *uuid.UUID `db:"c_user_id"`
	CCustomerName *string    `db:"c_customer_name"`
	CAddress      *string    `db:"c_address"`
	CGSTIn        *string    `db:"c_gst_in"`
	CState        *string    `db:"c_state"`
	CStateCode    *int       `db:"c_state_code"`
	CCreatedAt    *time.Time `db:"c_created_at"`
	CUpdatedAt    *time.Time `db:"c_updated_at"`
}

func (j joinedCustomer) customer() *domain.Customer {
	if j.CID == nil {
		return nil
	}
	c := &domain.Customer{
		ID:        *j.CID,
		GSTIn:     j.CGSTIn,
		State:     j.CState,
		StateCode: j.CStateCode,
	}
	if j.CUserID != nil {
		c.UserID = *j.CUserID
	}
	if j.CCustomerName != nil {
		c.CustomerName = *j.CCustomerName
	}
	if j.CAddress != nil {
		c.Address = *j.CAddress
	}
	if j.CCreatedAt != nil {
		c.CreatedAt = *j.CCreatedAt
	}
	if j.CUpdatedAt != nil {
		c.UpdatedAt = *j.CUpdatedAt
	}
	return c
}

// joinedProduct holds the LEFT JOINed product master columns.
type joinedProduct struct {
	PID          *uuid.UUID       `db:"p_id"`
	PUserID      *uuid.UUID       `db:"p_user_id"`
	PProductName *string          `db:"p_product_name"`
	PHSNCode     *int64           `db:"p_hsn_code"`
	PCGSTRate    *decimal.Decimal `db:"p_cgst_rate"`
	PSGSTRate    *decimal.Decimal `db:"p_sgst_rate"`
	PCreatedAt   *time.Time       `db:"p_created_at"`
	PUpdatedAt   *time.Time       `db:"p_updated_at"`
}

func (j joinedProduct) product() *domain.Product {
	if j.PID == nil {
		return nil
	}
	p := &domain.Product{
		ID:       *j.PID,
		HSNCode:  j.PHSNCode,
		CGSTRate: j.PCGSTRate,
		SGSTRate: j.PSGSTRate,
	}
	if j.PUserID != nil {
		p.UserID = *j.PUserID
	}
	if j.PProductName != nil {
		p.ProductName = *j.PProductName
	}
	if j.PCreatedAt != nil {
		p.CreatedAt = *j.PCreatedAt
	}
	if j.PUpdatedAt != nil {
		p.UpdatedAt = *j.PUpdatedAt
	}
	return p
}

type gstInvoiceRow struct {
	domain.GSTInvoice
	joinedCustomer
}

type localInvoiceRow struct {
	domain.LocalInvoice
	joinedCustomer
}

type gstLineRow struct {
	domain.GSTPricedProduct
	joinedProduct
}

type localLineRow struct {
	domain.LocalPricedProduct
	joinedProduct
}

const gstCustomerCols = `c.id AS c_id, c.user_id AS c_user_id, c.customer_name AS c_customer_name,
	c.address AS c_address, c.gst_in AS c_gst_in, c.state AS c_state, c.state_code AS c_state_code,
	c.created_at AS c_created_at, c.updated_at AS c_updated_at`

const localCustomerCols = `c.id AS c_id, c.user_id AS c_user_id, c.customer_name AS c_customer_name,
	c.address AS c_address, NULL AS c_gst_in, NULL AS c_state, NULL AS c_state_code,
	c.created_at AS c_created_at, c.updated_at AS c_updated_at`

// fromClause joins the customer on both id and tenant, so a reference to
// another tenant's customer surfaces as dangling rather than leaking.
func fromClause(d domain.VariantDescriptor) string {
	return fmt.Sprintf("FROM %s i LEFT JOIN %s c ON c.id = i.customer_id AND c.user_id = i.user_id",
		d.Tables.Invoice, d.Tables.Customer)
}

func (r *invoiceRepo) FindInvoices(ctx context.Context, q query.Query) ([]domain.RawInvoice, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.FindInvoices: %w", err)
	}
	order, err := buildOrderClause(q)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.FindInvoices: %w", err)
	}

	if d.Variant == domain.VariantGST {
		stmt := fmt.Sprintf(`SELECT i.id, i.user_id, i.invoice_no, i.invoice_date, i.month_of, i.year_of,
			i.customer_id, i.total_invoice_value, i.total_tax_gst, i.total_taxable_value,
			i.is_outside_delhi_invoice, i.created_at, i.updated_at, %s
		%s %s %s`, gstCustomerCols, fromClause(d), where, order)

		var rows []gstInvoiceRow
		if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
			return nil, fmt.Errorf("invoiceRepo.FindInvoices: %w", err)
		}
		return r.attachGSTLines(ctx, q.UserID, rows)
	}

	stmt := fmt.Sprintf(`SELECT i.id, i.user_id, i.local_invoice_no, i.local_invoice_date, i.month_of, i.year_of,
		i.customer_id, i.local_total_invoice_value, i.created_at, i.updated_at, %s
	%s %s %s`, localCustomerCols, fromClause(d), where, order)

	var rows []localInvoiceRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.FindInvoices: %w", err)
	}
	return r.attachLocalLines(ctx, q.UserID, rows)
}

func (r *invoiceRepo) attachGSTLines(ctx context.Context, userID uuid.UUID, rows []gstInvoiceRow) ([]domain.RawInvoice, error) {
	out := make([]domain.RawInvoice, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	stmt, args, err := sqlx.In(`SELECT pp.id, pp.invoice_id, pp.product_id, pp.qty, pp.rate, pp.taxable_value,
		pp.cgst_amt, pp.sgst_amt, pp.product_total_value, pp.cgst_rate, pp.sgst_rate,
		p.id AS p_id, p.user_id AS p_user_id, p.product_name AS p_product_name, p.hsn_code AS p_hsn_code,
		p.cgst_rate AS p_cgst_rate, p.sgst_rate AS p_sgst_rate, p.created_at AS p_created_at, p.updated_at AS p_updated_at
	FROM priced_products pp
	LEFT JOIN products p ON p.id = pp.product_id AND p.user_id = ?
	WHERE pp.invoice_id IN (?)
	ORDER BY pp.invoice_id, pp.id`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.attachGSTLines: %w", err)
	}

	var lines []gstLineRow
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.attachGSTLines: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]domain.GSTLine, len(rows))
	for i := range lines {
		l := &lines[i]
		byInvoice[l.InvoiceID] = append(byInvoice[l.InvoiceID], domain.GSTLine{Item: l.GSTPricedProduct, Product: l.product()})
	}

	for i := range rows {
		out = append(out, domain.RawInvoice{GST: &domain.GSTInvoiceRecord{
			Invoice:  rows[i].GSTInvoice,
			Customer: rows[i].customer(),
			Lines:    byInvoice[rows[i].ID],
		}})
	}
	return out, nil
}

func (r *invoiceRepo) attachLocalLines(ctx context.Context, userID uuid.UUID, rows []localInvoiceRow) ([]domain.RawInvoice, error) {
	out := make([]domain.RawInvoice, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	stmt, args, err := sqlx.In(`SELECT pp.id, pp.invoice_id, pp.product_id, pp.qty, pp.rate, pp.product_total_value,
		p.id AS p_id, p.user_id AS p_user_id, p.product_name AS p_product_name,
		NULL AS p_hsn_code, NULL AS p_cgst_rate, NULL AS p_sgst_rate,
		p.created_at AS p_created_at, p.updated_at AS p_updated_at
	FROM local_priced_products pp
	LEFT JOIN local_products p ON p.id = pp.product_id AND p.user_id = ?
	WHERE pp.invoice_id IN (?)
	ORDER BY pp.invoice_id, pp.id`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.attachLocalLines: %w", err)
	}

	var lines []localLineRow
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.attachLocalLines: %w", err)
	}
	byInvoice := make(map[uuid.UUID][]domain.LocalLine, len(rows))
	for i := range lines {
		l := &lines[i]
		byInvoice[l.InvoiceID] = append(byInvoice[l.InvoiceID], domain.LocalLine{Item: l.LocalPricedProduct, Product: l.product()})
	}

	for i := range rows {
		out = append(out, domain.RawInvoice{Local: &domain.LocalInvoiceRecord{
			Invoice:  rows[i].LocalInvoice,
			Customer: rows[i].customer(),
			Lines:    byInvoice[rows[i].ID],
		}})
	}
	return out, nil
}

func (r *invoiceRepo) CountInvoices(ctx context.Context, q query.Query) (int, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.CountInvoices: %w", err)
	}

	var total int
	stmt := fmt.Sprintf("SELECT COUNT(*) %s %s", fromClause(d), where)
	if err := r.db.GetContext(ctx, &total, stmt, args...); err != nil {
		return 0, fmt.Errorf("invoiceRepo.CountInvoices: %w", err)
	}
	return total, nil
}

func (r *invoiceRepo) ListInvoiceIDs(ctx context.Context, q query.Query) ([]uuid.UUID, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListInvoiceIDs: %w", err)
	}
	order, err := buildOrderClause(q)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListInvoiceIDs: %w", err)
	}

	var ids []uuid.UUID
	stmt := fmt.Sprintf("SELECT i.id %s %s %s", fromClause(d), where, order)
	if err := r.db.SelectContext(ctx, &ids, stmt, args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListInvoiceIDs: %w", err)
	}
	return ids, nil
}

func (r *invoiceRepo) DistinctMonths(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]string, error) {
	d := domain.ResolveVariant(v)

	var months []string
	stmt := fmt.Sprintf(`SELECT DISTINCT month_of FROM %s
		WHERE user_id = $1 AND month_of IS NOT NULL AND month_of <> ''
		ORDER BY month_of ASC`, d.Tables.Invoice)
	if err := r.db.SelectContext(ctx, &months, stmt, userID); err != nil {
		return nil, fmt.Errorf("invoiceRepo.DistinctMonths: %w", err)
	}
	return months, nil
}

func (r *invoiceRepo) ListInvoiceAmounts(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.InvoiceAmount, error) {
	d := domain.ResolveVariant(v)

	var amounts []domain.InvoiceAmount
	stmt := fmt.Sprintf(`SELECT month_of, year_of, COALESCE(%s, '') AS total_invoice_value
		FROM %s WHERE user_id = $1`, d.Column(domain.FieldTotalValue), d.Tables.Invoice)
	if err := r.db.SelectContext(ctx, &amounts, stmt, userID); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListInvoiceAmounts: %w", err)
	}
	return amounts, nil
}
