package port

import (
	"context"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// ProductRepository reads GST and Local product masters.
type ProductRepository interface {
	FindProducts(ctx context.Context, q query.Query) ([]domain.Product, error)
	CountProducts(ctx context.Context, q query.Query) (int, error)
}
