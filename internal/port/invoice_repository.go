package port

import (
	"context"

	"github.com/google/uuid"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// InvoiceRepository reads invoices of either variant. Every method is
// scoped to a single tenant; queries carry their tenant conjunct.
type InvoiceRepository interface {
	// FindInvoices returns one page of invoices joined with their customer,
	// line items and products. Unresolvable references are left nil.
	FindInvoices(ctx context.Context, q query.Query) ([]domain.RawInvoice, error)
	CountInvoices(ctx context.Context, q query.Query) (int, error)
	ListInvoiceIDs(ctx context.Context, q query.Query) ([]uuid.UUID, error)
	DistinctMonths(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]string, error)
	ListInvoiceAmounts(ctx context.Context, v domain.Variant, userID uuid.UUID) ([]domain.InvoiceAmount, error)
}
