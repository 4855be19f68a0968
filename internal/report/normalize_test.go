package report_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businessathi/internal/domain"
	"businessathi/internal/report"
)

func ptr[T any](v T) *T { return &v }

func gstRecord() *domain.GSTInvoiceRecord {
	customerID := uuid.New()
	productID := uuid.New()
	invoiceID := uuid.New()
	return &domain.GSTInvoiceRecord{
		Invoice: domain.GSTInvoice{
			ID:                    invoiceID,
			InvoiceNo:             42,
			InvoiceDate:           time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			MonthOf:               "March",
			YearOf:                "2025",
			CustomerID:            customerID,
			TotalInvoiceValue:     "1180.00",
			TotalTaxGST:           "180.00",
			TotalTaxableValue:     "1000.00",
			IsOutsideDelhiInvoice: false,
		},
		Customer: &domain.Customer{
			ID:           customerID,
			CustomerName: "Titan Traders",
			Address:      "Karol Bagh, Delhi",
			GSTIn:        ptr("07ABCDE1234F1Z5"),
			State:        ptr("Delhi"),
			StateCode:    ptr(7),
		},
		Lines: []domain.GSTLine{{
			Item: domain.GSTPricedProduct{
				InvoiceID:         invoiceID,
				ProductID:         productID,
				Qty:               10,
				Rate:              decimal.RequireFromString("100"),
				TaxableValue:      "1000.00",
				CGSTAmt:           "90.00",
				SGSTAmt:           "90.00",
				ProductTotalValue: "1180.00",
				CGSTRate:          decimal.RequireFromString("6"),
				SGSTRate:          decimal.RequireFromString("6"),
			},
			Product: &domain.Product{
				ID:          productID,
				ProductName: "Steel Rod",
				HSNCode:     ptr(int64(7214)),
				CGSTRate:    ptr(decimal.RequireFromString("9")),
				SGSTRate:    ptr(decimal.RequireFromString("9")),
			},
		}},
	}
}

func localRecord() *domain.LocalInvoiceRecord {
	customerID := uuid.New()
	productID := uuid.New()
	return &domain.LocalInvoiceRecord{
		Invoice: domain.LocalInvoice{
			ID:                     uuid.New(),
			LocalInvoiceNo:         7,
			LocalInvoiceDate:       time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
			MonthOf:                "April",
			YearOf:                 "2025",
			CustomerID:             customerID,
			LocalTotalInvoiceValue: "250.00",
		},
		Customer: &domain.Customer{ID: customerID, CustomerName: "Ram Stores", Address: "Lajpat Nagar"},
		Lines: []domain.LocalLine{{
			Item: domain.LocalPricedProduct{
				ProductID:         productID,
				Qty:               5,
				Rate:              decimal.RequireFromString("50"),
				ProductTotalValue: "250.00",
			},
			Product: &domain.Product{ID: productID, ProductName: "Notebook"},
		}},
	}
}

func TestNormalize_GST(t *testing.T) {
	raw := gstRecord()

	rec, err := report.Normalize(domain.RawInvoice{GST: raw}, domain.VariantGST)
	require.NoError(t, err)

	assert.Equal(t, raw.Invoice.ID, rec.ID)
	assert.Equal(t, domain.VariantGST, rec.Variant)
	assert.Equal(t, int64(42), rec.InvoiceNo)
	assert.Equal(t, "Titan Traders", rec.CustomerName)
	assert.Equal(t, "1180.00", rec.TotalInvoiceValue)
	require.NotNil(t, rec.TotalTaxGST)
	assert.Equal(t, "180.00", *rec.TotalTaxGST)
	assert.Equal(t, "1000.00", *rec.TotalTaxableValue)
	assert.Equal(t, "07ABCDE1234F1Z5", *rec.GSTIn)
	assert.Equal(t, 7, *rec.StateCode)
	assert.False(t, *rec.IsOutsideDelhiInvoice)

	require.Len(t, rec.PricedProducts, 1)
	line := rec.PricedProducts[0]
	assert.Equal(t, "Steel Rod", line.ProductName)
	assert.Equal(t, "1000.00", *line.TaxableValue)
	// Rates come from the product master, not the line snapshot.
	assert.True(t, line.CGSTRate.Equal(decimal.RequireFromString("9")))
	assert.True(t, line.SGSTRate.Equal(decimal.RequireFromString("9")))
}

func TestNormalize_LocalOmitsTaxFields(t *testing.T) {
	rec, err := report.Normalize(domain.RawInvoice{Local: localRecord()}, domain.VariantLocal)
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.InvoiceNo)
	assert.Equal(t, "250.00", rec.TotalInvoiceValue)
	assert.Nil(t, rec.TotalTaxGST)
	assert.Nil(t, rec.TotalTaxableValue)
	assert.Nil(t, rec.GSTIn)
	assert.Nil(t, rec.IsOutsideDelhiInvoice)

	body, err := json.Marshal(rec)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m))
	for _, key := range []string{"total_tax_gst", "total_taxable_value", "gst_in", "state", "state_code", "is_outside_delhi_invoice"} {
		assert.NotContains(t, m, key)
	}
	lines := m["priced_products"].([]interface{})
	assert.NotContains(t, lines[0].(map[string]interface{}), "cgst_amt")
}

func TestNormalize_DanglingCustomer(t *testing.T) {
	raw := gstRecord()
	raw.Customer = nil

	_, err := report.Normalize(domain.RawInvoice{GST: raw}, domain.VariantGST)
	require.ErrorIs(t, err, domain.ErrIntegrity)

	var ie *domain.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, raw.Invoice.ID, ie.InvoiceID)
	assert.Equal(t, "customer", ie.Reference)
	assert.Equal(t, raw.Invoice.CustomerID, ie.ReferredID)
}

func TestNormalize_DanglingProduct(t *testing.T) {
	raw := localRecord()
	raw.Lines[0].Product = nil

	_, err := report.Normalize(domain.RawInvoice{Local: raw}, domain.VariantLocal)
	var ie *domain.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "product", ie.Reference)
}

func TestNormalize_VariantMismatch(t *testing.T) {
	_, err := report.Normalize(domain.RawInvoice{Local: localRecord()}, domain.VariantGST)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestCheckTotals(t *testing.T) {
	gst, err := report.Normalize(domain.RawInvoice{GST: gstRecord()}, domain.VariantGST)
	require.NoError(t, err)
	assert.NoError(t, report.CheckTotals(gst))

	gst.TotalInvoiceValue = "1180.01"
	assert.NoError(t, report.CheckTotals(gst), "within tolerance")

	gst.TotalInvoiceValue = "1200.00"
	assert.ErrorIs(t, report.CheckTotals(gst), domain.ErrTotalsMismatch)

	local, err := report.Normalize(domain.RawInvoice{Local: localRecord()}, domain.VariantLocal)
	require.NoError(t, err)
	assert.NoError(t, report.CheckTotals(local))

	local.PricedProducts[0].Qty = 6
	assert.ErrorIs(t, report.CheckTotals(local), domain.ErrTotalsMismatch)
}
