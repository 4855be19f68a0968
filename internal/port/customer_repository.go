package port

import (
	"context"

	"github.com/google/uuid"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// CustomerRepository reads GST and Local customers.
type CustomerRepository interface {
	FindCustomers(ctx context.Context, q query.Query) ([]domain.Customer, error)
	CountCustomers(ctx context.Context, q query.Query) (int, error)
	// ListCustomerOptions returns every customer of the tenant ordered by name.
	ListCustomerOptions(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.CustomerOption, error)
}
