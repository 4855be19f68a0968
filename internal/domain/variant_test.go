package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/domain"
)

func TestParseVariant(t *testing.T) {
	v, err := domain.ParseVariant(" GST ")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantGST, v)

	v, err = domain.ParseVariant("local")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantLocal, v)

	_, err = domain.ParseVariant("titan")
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)
}

func TestResolveVariant_FieldMap(t *testing.T) {
	gst := domain.ResolveVariant(domain.VariantGST)
	assert.Equal(t, "invoices", gst.Tables.Invoice)
	assert.Equal(t, "invoice_no", gst.Column(domain.FieldInvoiceNumber))
	assert.Equal(t, "invoice_date", gst.Column(domain.FieldInvoiceDate))
	assert.Equal(t, "total_invoice_value", gst.Column(domain.FieldTotalValue))
	assert.True(t, gst.HasTax)
	assert.True(t, gst.HasCustomerTaxID)
	assert.True(t, gst.HasProductTax)

	local := domain.ResolveVariant(domain.VariantLocal)
	assert.Equal(t, "local_invoices", local.Tables.Invoice)
	assert.Equal(t, "local_priced_products", local.Tables.LineItem)
	assert.Equal(t, "local_invoice_no", local.Column(domain.FieldInvoiceNumber))
	assert.Equal(t, "local_invoice_date", local.Column(domain.FieldInvoiceDate))
	assert.Equal(t, "local_total_invoice_value", local.Column(domain.FieldTotalValue))
	assert.False(t, local.HasTax)
	assert.False(t, local.HasCustomerTaxID)
	assert.False(t, local.HasProductTax)
}

func TestResolveVariant_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { domain.ResolveVariant("export") })
}

func TestParseExportFormat(t *testing.T) {
	f, err := domain.ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, f)

	_, err = domain.ParseExportFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, domain.PageCount(0, 15))
	assert.Equal(t, 1, domain.PageCount(15, 15))
	assert.Equal(t, 2, domain.PageCount(16, 15))
	assert.Equal(t, 0, domain.PageCount(10, 0))
}

func TestParseAmount(t *testing.T) {
	d, ok := domain.ParseAmount("1500.00")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1500")))

	d, ok = domain.ParseAmount("")
	assert.False(t, ok)
	assert.True(t, d.IsZero())

	_, ok = domain.ParseAmount("12,00")
	assert.False(t, ok)
}

func TestErrors_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &domain.IntegrityError{Reference: "customer"}, domain.ErrIntegrity)
	assert.ErrorIs(t, &domain.OperationError{Message: "failed to export invoices"}, domain.ErrOperationFailed)

	err := &domain.NothingToExportError{Entity: domain.EntityInvoice}
	assert.ErrorIs(t, err, domain.ErrNothingToExport)
	assert.Equal(t, "no invoices found for export", err.Error())
}
