package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/query"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func productColumns(d domain.VariantDescriptor) string {
	if d.HasProductTax {
		return "p.id, p.user_id, p.product_name, p.hsn_code, p.cgst_rate, p.sgst_rate, p.created_at, p.updated_at"
	}
	return "p.id, p.user_id, p.product_name, NULL AS hsn_code, NULL AS cgst_rate, NULL AS sgst_rate, p.created_at, p.updated_at"
}

func (r *productRepo) FindProducts(ctx context.Context, q query.Query) ([]domain.Product, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return nil, fmt.Errorf("productRepo.FindProducts: %w", err)
	}
	order, err := buildOrderClause(q)
	if err != nil {
		return nil, fmt.Errorf("productRepo.FindProducts: %w", err)
	}

	products := []domain.Product{}
	stmt := fmt.Sprintf("SELECT %s FROM %s p %s %s", productColumns(d), d.Tables.Product, where, order)
	if err := r.db.SelectContext(ctx, &products, stmt, args...); err != nil {
		return nil, fmt.Errorf("productRepo.FindProducts: %w", err)
	}
	return products, nil
}

func (r *productRepo) CountProducts(ctx context.Context, q query.Query) (int, error) {
	d := domain.ResolveVariant(q.Variant)
	where, args, err := buildWhereClause(q)
	if err != nil {
		return 0, fmt.Errorf("productRepo.CountProducts: %w", err)
	}

	var total int
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s p %s", d.Tables.Product, where)
	if err := r.db.GetContext(ctx, &total, stmt, args...); err != nil {
		return 0, fmt.Errorf("productRepo.CountProducts: %w", err)
	}
	return total, nil
}
