package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
)

// SeedDemo fills s with a small consistent data set for userID: two customers
// and two products per variant and three invoices per variant dated in the
// month of now and the month before.
func SeedDemo(s *Store, userID uuid.UUID, now time.Time) {
	gstin := "07AAACB2230M1ZA"
	delhi := "Delhi"
	code := 7
	hsn := int64(8471)
	nine := decimal.NewFromInt(9)

	acme := domain.Customer{ID: uuid.New(), UserID: userID, CustomerName: "Acme Traders", Address: "12 Chandni Chowk, Delhi", GSTIn: &gstin, State: &delhi, StateCode: &code, CreatedAt: now, UpdatedAt: now}
	bharat := domain.Customer{ID: uuid.New(), UserID: userID, CustomerName: "Bharat Stores", Address: "4 MG Road, Gurugram", CreatedAt: now, UpdatedAt: now}
	s.AddCustomer(domain.VariantGST, acme)
	s.AddCustomer(domain.VariantGST, bharat)
	s.AddCustomer(domain.VariantLocal, domain.Customer{ID: acme.ID, UserID: userID, CustomerName: acme.CustomerName, Address: acme.Address, CreatedAt: now, UpdatedAt: now})
	s.AddCustomer(domain.VariantLocal, domain.Customer{ID: bharat.ID, UserID: userID, CustomerName: bharat.CustomerName, Address: bharat.Address, CreatedAt: now, UpdatedAt: now})

	laptop := domain.Product{ID: uuid.New(), UserID: userID, ProductName: "Laptop", HSNCode: &hsn, CGSTRate: &nine, SGSTRate: &nine, CreatedAt: now, UpdatedAt: now}
	cable := domain.Product{ID: uuid.New(), UserID: userID, ProductName: "HDMI Cable", CreatedAt: now, UpdatedAt: now}
	s.AddProduct(domain.VariantGST, laptop)
	s.AddProduct(domain.VariantLocal, cable)

	months := []time.Time{now, now.AddDate(0, 0, -now.Day()), now}
	for i, at := range months {
		customer := acme
		if i%2 == 1 {
			customer = bharat
		}
		month, year := at.Format("January"), at.Format("2006")
		qty := int64(i + 1)

		taxable := decimal.NewFromInt(1000 * qty)
		tax := taxable.Mul(nine).Div(decimal.NewFromInt(100))
		s.AddGSTInvoice(domain.GSTInvoice{
			ID: uuid.New(), UserID: userID, InvoiceNo: int64(i + 1), InvoiceDate: at,
			MonthOf: month, YearOf: year, CustomerID: customer.ID,
			TotalInvoiceValue: taxable.Add(tax).Add(tax).StringFixed(2),
			TotalTaxGST:       tax.Add(tax).StringFixed(2),
			TotalTaxableValue: taxable.StringFixed(2),
			CreatedAt:         at, UpdatedAt: at,
		}, domain.GSTPricedProduct{
			ID: uuid.New(), ProductID: laptop.ID, Qty: qty, Rate: decimal.NewFromInt(1000),
			TaxableValue: taxable.StringFixed(2), CGSTAmt: tax.StringFixed(2), SGSTAmt: tax.StringFixed(2),
			ProductTotalValue: taxable.Add(tax).Add(tax).StringFixed(2),
			CGSTRate:          nine, SGSTRate: nine,
		})

		total := decimal.NewFromInt(250 * qty)
		s.AddLocalInvoice(domain.LocalInvoice{
			ID: uuid.New(), UserID: userID, LocalInvoiceNo: int64(i + 1), LocalInvoiceDate: at,
			MonthOf: month, YearOf: year, CustomerID: customer.ID,
			LocalTotalInvoiceValue: total.StringFixed(2),
			CreatedAt:              at, UpdatedAt: at,
		}, domain.LocalPricedProduct{
			ID: uuid.New(), ProductID: cable.ID, Qty: qty, Rate: decimal.NewFromInt(250),
			ProductTotalValue: total.StringFixed(2),
		})
	}
}
