package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
)

func customerTable(customers []domain.Customer, v domain.Variant) table {
	d := domain.ResolveVariant(v)

	cols := []column{{"Customer Name", 25}, {"Address", 30}}
	if d.HasCustomerTaxID {
		cols = append(cols, column{"GST Number", 18}, column{"State", 15}, column{"State Code", 10})
	}
	cols = append(cols, column{"Created Date", 12})

	rows := make([][]string, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		row := []string{c.CustomerName, c.Address}
		if d.HasCustomerTaxID {
			row = append(row, deref(c.GSTIn), deref(c.State), derefInt(c.StateCode))
		}
		row = append(row, c.CreatedAt.Format(csvDateLayout))
		rows = append(rows, row)
	}

	return table{
		entity:  domain.EntityCustomer,
		base:    fmt.Sprintf("customers_%s", v),
		sheet:   "Customers",
		columns: cols,
		rows:    rows,
	}
}

func productTable(products []domain.Product, v domain.Variant) table {
	d := domain.ResolveVariant(v)

	cols := []column{{"Product Name", 25}}
	if d.HasProductTax {
		cols = append(cols,
			column{"HSN Code", 10},
			column{"CGST Rate", 10},
			column{"SGST Rate", 10},
			column{"Total GST Rate", 14},
		)
	}
	cols = append(cols, column{"Created Date", 12})

	rows := make([][]string, 0, len(products))
	for i := range products {
		p := &products[i]
		row := []string{p.ProductName}
		if d.HasProductTax {
			cgst, sgst := decimal.Zero, decimal.Zero
			if p.CGSTRate != nil {
				cgst = *p.CGSTRate
			}
			if p.SGSTRate != nil {
				sgst = *p.SGSTRate
			}
			hsn := ""
			if p.HSNCode != nil {
				hsn = strconv.FormatInt(*p.HSNCode, 10)
			}
			row = append(row, hsn, cgst.String(), sgst.String(), cgst.Add(sgst).String())
		}
		row = append(row, p.CreatedAt.Format(csvDateLayout))
		rows = append(rows, row)
	}

	return table{
		entity:  domain.EntityProduct,
		base:    fmt.Sprintf("products_%s", v),
		sheet:   "Products",
		columns: cols,
		rows:    rows,
	}
}

// CustomersToCSV renders customers as CSV named customers_{variant}_{ts}.csv.
func CustomersToCSV(customers []domain.Customer, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toCSV(customerTable(customers, v), at)
}

// CustomersToXLSX renders customers into a "Customers" sheet.
func CustomersToXLSX(customers []domain.Customer, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toXLSX(customerTable(customers, v), at)
}

// ProductsToCSV renders products as CSV named products_{variant}_{ts}.csv.
func ProductsToCSV(products []domain.Product, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toCSV(productTable(products, v), at)
}

// ProductsToXLSX renders products into a "Products" sheet.
func ProductsToXLSX(products []domain.Product, v domain.Variant, at time.Time) (*domain.ExportFile, error) {
	return toXLSX(productTable(products, v), at)
}
