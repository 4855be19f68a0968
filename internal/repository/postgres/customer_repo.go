package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/query"
)

type customerRepo struct {
	db *sqlx.DB
}

// NewCustomerRepo creates a new PostgreSQL-backed CustomerRepository.
func NewCustomerRepo(db *sqlx.DB) port.CustomerRepository {
	return &customerRepo{db: db}
}

func customerColumns(d domain.VariantDescriptor) string {
	if d.HasCustomerTaxID {
		return "c.id, c.user_id, c.customer_name, c.address, c.gst_in, c.state, c.state_code, c.created_at, c.updated_at"
	}
	return "c.id, c.user_id, c.customer_name, c.address, NULL AS gst_in, NULL AS state, NULL AS state_code, c.created_at, c.updated_at"
}

func (r *customerRepo) FindCustomers(ctx context.Context, q query.Query) ([]domain.Customer, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return nil, fmt.Errorf("customerRepo.FindCustomers: %w", err)
	}
	order, err := buildOrderClause(q)
	if err != nil {
		return nil, fmt.Errorf("customerRepo.FindCustomers: %w", err)
	}

	customers := []domain.Customer{}
	stmt := fmt.Sprintf("SELECT %s FROM %s c %s %s", customerColumns(d), d.Tables.Customer, where, order)
	if err := r.db.SelectContext(ctx, &customers, stmt, args...); err != nil {
		return nil, fmt.Errorf("customerRepo.FindCustomers: %w", err)
	}
	return customers, nil
}

func (r *customerRepo) CountCustomers(ctx context.Context, q query.Query) (int, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return 0, fmt.Errorf("customerRepo.CountCustomers: %w", err)
	}

	var total int
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s c %s", d.Tables.Customer, where)
	if err := r.db.GetContext(ctx, &total, stmt, args...); err != nil {
		return 0, fmt.Errorf("customerRepo.CountCustomers: %w", err)
	}
	return total, nil
}

func (r *customerRepo) ListCustomerOptions(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.CustomerOption, error) {
	d := domain.ResolveVariant(v)

	options := []domain.CustomerOption{}
	stmt := fmt.Sprintf(`SELECT id, customer_name, address FROM %s
		WHERE user_id = $1 ORDER BY customer_name ASC, id ASC`, d.Tables.Customer)
	if err := r.db.SelectContext(ctx, &options, stmt, userID); err != nil {
		return nil, fmt.Errorf("customerRepo.ListCustomerOptions: %w", err)
	}
	return options, nil
}
