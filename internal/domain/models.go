package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTInvoice is a tax-compliant invoice as stored.
type GSTInvoice struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	UserID                uuid.UUID `db:"user_id" json:"user_id"`
	InvoiceNo             int64     `db:"invoice_no" json:"invoice_no"`
	InvoiceDate           time.Time `db:"invoice_date" json:"invoice_date"`
	MonthOf               string    `db:"month_of" json:"month_of"`
	YearOf                string    `db:"year_of" json:"year_of"`
	CustomerID            uuid.UUID `db:"customer_id" json:"customer_id"`
	TotalInvoiceValue     string    `db:"total_invoice_value" json:"total_invoice_value"`
	TotalTaxGST           string    `db:"total_tax_gst" json:"total_tax_gst"`
	TotalTaxableValue     string    `db:"total_taxable_value" json:"total_taxable_value"`
	IsOutsideDelhiInvoice bool      `db:"is_outside_delhi_invoice" json:"is_outside_delhi_invoice"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// LocalInvoice is a non-tax invoice as stored.
type LocalInvoice struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	UserID                 uuid.UUID `db:"user_id" json:"user_id"`
	LocalInvoiceNo         int64     `db:"local_invoice_no" json:"local_invoice_no"`
	LocalInvoiceDate       time.Time `db:"local_invoice_date" json:"local_invoice_date"`
	MonthOf                string    `db:"month_of" json:"month_of"`
	YearOf                 string    `db:"year_of" json:"year_of"`
	CustomerID             uuid.UUID `db:"customer_id" json:"customer_id"`
	LocalTotalInvoiceValue string    `db:"local_total_invoice_value" json:"local_total_invoice_value"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// Customer is either a GST or a Local customer. The tax identity fields are
// nil for Local customers.
type Customer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	Address      string    `db:"address" json:"address"`
	GSTIn        *string   `db:"gst_in" json:"gst_in,omitempty"`
	State        *string   `db:"state" json:"state,omitempty"`
	StateCode    *int      `db:"state_code" json:"state_code,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Product is either a GST or a Local product master row. HSN code and rates
// are nil for Local products.
type Product struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	ProductName string           `db:"product_name" json:"product_name"`
	HSNCode     *int64           `db:"hsn_code" json:"hsn_code,omitempty"`
	CGSTRate    *decimal.Decimal `db:"cgst_rate" json:"cgst_rate,omitempty"`
	SGSTRate    *decimal.Decimal `db:"sgst_rate" json:"sgst_rate,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// GSTPricedProduct is a GST invoice line item. CGSTRate and SGSTRate are
// snapshots taken when the invoice was created.
type GSTPricedProduct struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	InvoiceID         uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	ProductID         uuid.UUID       `db:"product_id" json:"product_id"`
	Qty               int64           `db:"qty" json:"qty"`
	Rate              decimal.Decimal `db:"rate" json:"rate"`
	TaxableValue      string          `db:"taxable_value" json:"taxable_value"`
	CGSTAmt           string          `db:"cgst_amt" json:"cgst_amt"`
	SGSTAmt           string          `db:"sgst_amt" json:"sgst_amt"`
	ProductTotalValue string          `db:"product_total_value" json:"product_total_value"`
	CGSTRate          decimal.Decimal `db:"cgst_rate" json:"cgst_rate"`
	SGSTRate          decimal.Decimal `db:"sgst_rate" json:"sgst_rate"`
}

// LocalPricedProduct is a Local invoice line item.
type LocalPricedProduct struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	InvoiceID         uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	ProductID         uuid.UUID       `db:"product_id" json:"product_id"`
	Qty               int64           `db:"qty" json:"qty"`
	Rate              decimal.Decimal `db:"rate" json:"rate"`
	ProductTotalValue string          `db:"product_total_value" json:"product_total_value"`
}

// GSTLine pairs a line item with its product master row. Product is nil when
// the reference does not resolve.
type GSTLine struct {
	Item    GSTPricedProduct
	Product *Product
}

// LocalLine pairs a line item with its product master row.
type LocalLine struct {
	Item    LocalPricedProduct
	Product *Product
}

// GSTInvoiceRecord is a GST invoice joined with its customer and lines as
// fetched from storage. Customer is nil when the reference does not resolve.
type GSTInvoiceRecord struct {
	Invoice  GSTInvoice
	Customer *Customer
	Lines    []GSTLine
}

// LocalInvoiceRecord is the Local counterpart of GSTInvoiceRecord.
type LocalInvoiceRecord struct {
	Invoice  LocalInvoice
	Customer *Customer
	Lines    []LocalLine
}

// RawInvoice holds exactly one of GST or Local.
type RawInvoice struct {
	GST   *GSTInvoiceRecord
	Local *LocalInvoiceRecord
}

// ID returns the id of whichever branch is set.
func (r RawInvoice) ID() uuid.UUID {
	switch {
	case r.GST != nil:
		return r.GST.Invoice.ID
	case r.Local != nil:
		return r.Local.Invoice.ID
	default:
		return uuid.Nil
	}
}

// ReportingRecord is the variant-independent shape served by filters and
// exports. GST-only fields are nil for Local invoices and are omitted from
// JSON; absence means "not applicable", never zero.
type ReportingRecord struct {
	ID                uuid.UUID       `json:"id"`
	Variant           Variant         `json:"invoice_type"`
	InvoiceNo         int64           `json:"invoice_no"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	MonthOf           string          `json:"month_of"`
	YearOf            string          `json:"year_of"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerName      string          `json:"customer_name"`
	Address           string          `json:"address"`
	TotalInvoiceValue string          `json:"total_invoice_value"`
	PricedProducts    []ReportingLine `json:"priced_products"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	TotalTaxGST           *string `json:"total_tax_gst,omitempty"`
	TotalTaxableValue     *string `json:"total_taxable_value,omitempty"`
	IsOutsideDelhiInvoice *bool   `json:"is_outside_delhi_invoice,omitempty"`
	GSTIn                 *string `json:"gst_in,omitempty"`
	State                 *string `json:"state,omitempty"`
	StateCode             *int    `json:"state_code,omitempty"`
}

// ReportingLine is a normalized line item.
type ReportingLine struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Qty               int64           `json:"qty"`
	Rate              decimal.Decimal `json:"rate"`
	ProductTotalValue string          `json:"product_total_value"`

	TaxableValue *string          `json:"taxable_value,omitempty"`
	CGSTAmt      *string          `json:"cgst_amt,omitempty"`
	SGSTAmt      *string          `json:"sgst_amt,omitempty"`
	CGSTRate     *decimal.Decimal `json:"cgst_rate,omitempty"`
	SGSTRate     *decimal.Decimal `json:"sgst_rate,omitempty"`
}

// InvoiceFilter holds the caller-facing invoice filter parameters.
// Zero values mean "not set".
type InvoiceFilter struct {
	UserID       uuid.UUID
	Variant      Variant
	Month        string
	CustomerID   *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	GlobalSearch string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    SortOrder
}

// CustomerFilter holds customer listing parameters.
type CustomerFilter struct {
	UserID       uuid.UUID
	Variant      Variant
	GlobalSearch string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    SortOrder
}

// ProductFilter holds product listing parameters.
type ProductFilter struct {
	UserID       uuid.UUID
	Variant      Variant
	GlobalSearch string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    SortOrder
}

// InvoicePage is one page of normalized invoices.
type InvoicePage struct {
	Invoices    []ReportingRecord `json:"invoices"`
	TotalCount  int               `json:"total_count"`
	PageCount   int               `json:"page_count"`
	CurrentPage int               `json:"current_page"`
	PageSize    int               `json:"page_size"`
}

// CustomerPage is one page of customers.
type CustomerPage struct {
	Customers   []Customer `json:"customers"`
	TotalCount  int        `json:"total_count"`
	PageCount   int        `json:"page_count"`
	CurrentPage int        `json:"current_page"`
	PageSize    int        `json:"page_size"`
}

// ProductPage is one page of products.
type ProductPage struct {
	Products    []Product `json:"products"`
	TotalCount  int       `json:"total_count"`
	PageCount   int       `json:"page_count"`
	CurrentPage int       `json:"current_page"`
	PageSize    int       `json:"page_size"`
}

// PageCount returns ceil(total / pageSize).
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// CustomerOption is a customer entry for filter dropdowns.
type CustomerOption struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	Address      string    `db:"address" json:"address"`
}

// InvoiceAmount is the projection used by statistics.
type InvoiceAmount struct {
	MonthOf           string `db:"month_of" json:"month_of"`
	YearOf            string `db:"year_of" json:"year_of"`
	TotalInvoiceValue string `db:"total_invoice_value" json:"total_invoice_value"`
}

// MonthlyTotal is one row of the current-year breakdown.
type MonthlyTotal struct {
	Month string `json:"month"`
	Total Money  `json:"total"`
	Count int    `json:"count"`
}

// InvoiceStatistics is the dashboard summary for one tenant and variant.
type InvoiceStatistics struct {
	CurrentMonth      string         `json:"current_month"`
	CurrentYear       string         `json:"current_year"`
	CurrentMonthTotal Money          `json:"current_month_total"`
	TotalInvoices     int            `json:"total_invoices"`
	TotalValue        Money          `json:"total_value"`
	MonthlyBreakdown  []MonthlyTotal `json:"monthly_breakdown"`
}

// ExportFile is a serialized export ready to be streamed.
type ExportFile struct {
	Content     []byte
	Filename    string
	ContentType string
	Rows        int
}
