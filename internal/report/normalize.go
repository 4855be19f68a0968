// Package report converts raw variant records into the reporting shape and
// derives totals and statistics from them.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
)

// Normalize maps one raw invoice into a ReportingRecord. Monetary values are
// passed through unchanged. For GST lines, productName and the tax rates come
// from the product master; every other pricing field comes from the line
// item. A dangling customer or product reference yields an *IntegrityError.
func Normalize(raw domain.RawInvoice, v domain.Variant) (domain.ReportingRecord, error) {
	switch v {
	case domain.VariantGST:
		if raw.GST == nil {
			return domain.ReportingRecord{}, fmt.Errorf("%w: invoice %s is not a GST record", domain.ErrIntegrity, raw.ID())
		}
		return normalizeGST(raw.GST)
	case domain.VariantLocal:
		if raw.Local == nil {
			return domain.ReportingRecord{}, fmt.Errorf("%w: invoice %s is not a local record", domain.ErrIntegrity, raw.ID())
		}
		return normalizeLocal(raw.Local)
	default:
		return domain.ReportingRecord{}, fmt.Errorf("%w: %q", domain.ErrInvalidVariant, v)
	}
}

func normalizeGST(r *domain.GSTInvoiceRecord) (domain.ReportingRecord, error) {
	inv := r.Invoice
	if r.Customer == nil {
		return domain.ReportingRecord{}, &domain.IntegrityError{InvoiceID: inv.ID, Reference: "customer", ReferredID: inv.CustomerID}
	}

	lines := make([]domain.ReportingLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		if l.Product == nil {
			return domain.ReportingRecord{}, &domain.IntegrityError{InvoiceID: inv.ID, Reference: "product", ReferredID: l.Item.ProductID}
		}
		lines = append(lines, domain.ReportingLine{
			ProductID:         l.Item.ProductID,
			ProductName:       l.Product.ProductName,
			Qty:               l.Item.Qty,
			Rate:              l.Item.Rate,
			ProductTotalValue: l.Item.ProductTotalValue,
			TaxableValue:      strPtr(l.Item.TaxableValue),
			CGSTAmt:           strPtr(l.Item.CGSTAmt),
			SGSTAmt:           strPtr(l.Item.SGSTAmt),
			CGSTRate:          decPtr(l.Product.CGSTRate),
			SGSTRate:          decPtr(l.Product.SGSTRate),
		})
	}

	outside := inv.IsOutsideDelhiInvoice
	return domain.ReportingRecord{
		ID:                    inv.ID,
		Variant:               domain.VariantGST,
		InvoiceNo:             inv.InvoiceNo,
		InvoiceDate:           inv.InvoiceDate,
		MonthOf:               inv.MonthOf,
		YearOf:                inv.YearOf,
		CustomerID:            inv.CustomerID,
		CustomerName:          r.Customer.CustomerName,
		Address:               r.Customer.Address,
		TotalInvoiceValue:     inv.TotalInvoiceValue,
		PricedProducts:        lines,
		CreatedAt:             inv.CreatedAt,
		UpdatedAt:             inv.UpdatedAt,
		TotalTaxGST:           strPtr(inv.TotalTaxGST),
		TotalTaxableValue:     strPtr(inv.TotalTaxableValue),
		IsOutsideDelhiInvoice: &outside,
		GSTIn:                 copyStr(r.Customer.GSTIn),
		State:                 copyStr(r.Customer.State),
		StateCode:             copyInt(r.Customer.StateCode),
	}, nil
}

func normalizeLocal(r *domain.LocalInvoiceRecord) (domain.ReportingRecord, error) {
	inv := r.Invoice
	if r.Customer == nil {
		return domain.ReportingRecord{}, &domain.IntegrityError{InvoiceID: inv.ID, Reference: "customer", ReferredID: inv.CustomerID}
	}

	lines := make([]domain.ReportingLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		if l.Product == nil {
			return domain.ReportingRecord{}, &domain.IntegrityError{InvoiceID: inv.ID, Reference: "product", ReferredID: l.Item.ProductID}
		}
		lines = append(lines, domain.ReportingLine{
			ProductID:         l.Item.ProductID,
			ProductName:       l.Product.ProductName,
			Qty:               l.Item.Qty,
			Rate:              l.Item.Rate,
			ProductTotalValue: l.Item.ProductTotalValue,
		})
	}

	return domain.ReportingRecord{
		ID:                inv.ID,
		Variant:           domain.VariantLocal,
		InvoiceNo:         inv.LocalInvoiceNo,
		InvoiceDate:       inv.LocalInvoiceDate,
		MonthOf:           inv.MonthOf,
		YearOf:            inv.YearOf,
		CustomerID:        inv.CustomerID,
		CustomerName:      r.Customer.CustomerName,
		Address:           r.Customer.Address,
		TotalInvoiceValue: inv.LocalTotalInvoiceValue,
		PricedProducts:    lines,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}, nil
}

func strPtr(s string) *string { return &s }

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

func decPtr(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	d := *p
	return &d
}
