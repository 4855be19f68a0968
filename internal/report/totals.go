package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
)

// CheckTotals verifies the arithmetic invariants of a normalized record
// within domain.AmountTolerance:
//
//	GST:   totalTaxableValue + totalTaxGST = totalInvoiceValue
//	       taxableValue + cgstAmt + sgstAmt = productTotalValue per line
//	Local: sum(productTotalValue) = totalInvoiceValue
//	       qty * rate = productTotalValue per line
func CheckTotals(rec domain.ReportingRecord) error {
	total, ok := domain.ParseAmount(rec.TotalInvoiceValue)
	if !ok {
		return mismatch(rec, "total invoice value %q is not a number", rec.TotalInvoiceValue)
	}

	if rec.Variant == domain.VariantGST {
		taxable, ok1 := parsePtr(rec.TotalTaxableValue)
		tax, ok2 := parsePtr(rec.TotalTaxGST)
		if !ok1 || !ok2 {
			return mismatch(rec, "tax totals are missing or not numbers")
		}
		if !domain.ApproxEqual(taxable.Add(tax), total) {
			return mismatch(rec, "taxable %s + gst %s != total %s", taxable, tax, total)
		}
		for i, l := range rec.PricedProducts {
			lineTaxable, ok1 := parsePtr(l.TaxableValue)
			cgst, ok2 := parsePtr(l.CGSTAmt)
			sgst, ok3 := parsePtr(l.SGSTAmt)
			lineTotal, ok4 := domain.ParseAmount(l.ProductTotalValue)
			if !ok1 || !ok2 || !ok3 || !ok4 {
				return mismatch(rec, "line %d has non-numeric amounts", i+1)
			}
			if !domain.ApproxEqual(lineTaxable.Add(cgst).Add(sgst), lineTotal) {
				return mismatch(rec, "line %d: taxable + cgst + sgst != %s", i+1, lineTotal)
			}
		}
		return nil
	}

	sum := decimal.Zero
	for i, l := range rec.PricedProducts {
		lineTotal, ok := domain.ParseAmount(l.ProductTotalValue)
		if !ok {
			return mismatch(rec, "line %d total %q is not a number", i+1, l.ProductTotalValue)
		}
		if !domain.ApproxEqual(decimal.NewFromInt(l.Qty).Mul(l.Rate), lineTotal) {
			return mismatch(rec, "line %d: qty %d * rate %s != %s", i+1, l.Qty, l.Rate, lineTotal)
		}
		sum = sum.Add(lineTotal)
	}
	if !domain.ApproxEqual(sum, total) {
		return mismatch(rec, "line totals %s != invoice total %s", sum, total)
	}
	return nil
}

func parsePtr(s *string) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}
	return domain.ParseAmount(*s)
}

func mismatch(rec domain.ReportingRecord, format string, args ...interface{}) error {
	return fmt.Errorf("%w: invoice %s: %s", domain.ErrTotalsMismatch, rec.ID, fmt.Sprintf(format, args...))
}
