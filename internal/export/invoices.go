package export

import (
	"fmt"
	"strconv"
	"time"

	"businessathi/internal/domain"
)

var invoiceColumns = []column{
	{"Invoice No", 12},
	{"Invoice Date", 12},
	{"Month", 10},
	{"Year", 8},
	{"Customer Name", 25},
	{"Address", 30},
	{"Total Invoice Value", 18},
}

var gstInvoiceColumns = []column{
	{"GST Number", 18},
	{"State", 15},
	{"State Code", 10},
	{"Total Taxable Value", 18},
	{"Total GST", 12},
	{"Outside Delhi", 12},
}

func invoiceTable(records []domain.ReportingRecord, v domain.Variant, dateLayout string) table {
	d := domain.ResolveVariant(v)

	cols := append([]column{}, invoiceColumns...)
	if d.HasTax {
		cols = append(cols, gstInvoiceColumns...)
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		row := []string{
			strconv.FormatInt(r.InvoiceNo, 10),
			r.InvoiceDate.Format(dateLayout),
			r.MonthOf,
			r.YearOf,
			r.CustomerName,
			r.Address,
			r.TotalInvoiceValue,
		}
		if d.HasTax {
			outside := r.IsOutsideDelhiInvoice != nil && *r.IsOutsideDelhiInvoice
			row = append(row,
				deref(r.GSTIn),
				deref(r.State),
				derefInt(r.StateCode),
				deref(r.TotalTaxableValue),
				deref(r.TotalTaxGST),
				yesNo(outside),
			)
		}
		rows = append(rows, row)
	}

	return table{
		entity:  domain.EntityInvoice,
		base:    fmt.Sprintf("%s_invoices", v),
		sheet:   fmt.Sprintf("%s Invoices", v.Label()),
		columns: cols,
		rows:    rows,
	}
}

// InvoicesToCSV renders normalized invoices as CSV. Dates use dd/MM/yyyy.
// The filename is {variant}_invoices_{yyyy-MM-dd_HH-mm-ss}.csv.
func InvoicesToCSV(records []domain.ReportingRecord, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toCSV(invoiceTable(records, v, csvDateLayout), at)
}

// InvoicesToXLSX renders normalized invoices as a workbook with a single
// "GST Invoices" or "LOCAL Invoices" sheet. Dates use dd-MM-yyyy.
func InvoicesToXLSX(records []domain.ReportingRecord, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toXLSX(invoiceTable(records, v, xlsxDateLayout), at)
}
