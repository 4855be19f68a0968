package domain

import "fmt"

// Relation identifies which joined entity a field belongs to.
type Relation string

const (
	RelInvoice  Relation = "invoice"
	RelCustomer Relation = "customer"
	RelProduct  Relation = "product"
)

// Field is a physical column on a relation.
type Field struct {
	Relation Relation
	Column   string
}

func (f Field) String() string {
	return string(f.Relation) + "." + f.Column
}

// LogicalField names an invoice field whose physical column differs per variant.
type LogicalField string

const (
	FieldInvoiceNumber LogicalField = "invoiceNumber"
	FieldInvoiceDate   LogicalField = "invoiceDate"
	FieldTotalValue    LogicalField = "totalValue"
)

// Tables holds the physical table names of a variant's entity set.
type Tables struct {
	Invoice  string
	Customer string
	Product  string
	LineItem string
}

// VariantDescriptor is everything the engine needs to know about one variant.
type VariantDescriptor struct {
	Variant Variant
	Tables  Tables

	// HasTax reports invoice tax totals and line-item tax amounts.
	HasTax bool
	// HasCustomerTaxID reports gstIn, state and stateCode on customers.
	HasCustomerTaxID bool
	// HasProductTax reports hsnCode and tax rates on products.
	HasProductTax bool

	InvoiceSorts  map[string]Field
	CustomerSorts map[string]Field
	ProductSorts  map[string]Field

	DefaultInvoiceSort  string
	DefaultCustomerSort string
	DefaultProductSort  string

	CustomerSearch []Field

	fields map[LogicalField]string
}

// Column returns the physical invoice column for a logical field.
func (d VariantDescriptor) Column(f LogicalField) string {
	col, ok := d.fields[f]
	if !ok {
		panic(fmt.Sprintf("domain: no column for %s in variant %s", f, d.Variant))
	}
	return col
}

// InvoiceField returns the invoice-relation Field for a logical field.
func (d VariantDescriptor) InvoiceField(f LogicalField) Field {
	return Field{Relation: RelInvoice, Column: d.Column(f)}
}

func invoiceCol(c string) Field  { return Field{Relation: RelInvoice, Column: c} }
func customerCol(c string) Field { return Field{Relation: RelCustomer, Column: c} }
func productCol(c string) Field  { return Field{Relation: RelProduct, Column: c} }

var gstDescriptor = VariantDescriptor{
	Variant: VariantGST,
	Tables: Tables{
		Invoice:  "invoices",
		Customer: "customers",
		Product:  "products",
		LineItem: "priced_products",
	},
	HasTax:           true,
	HasCustomerTaxID: true,
	HasProductTax:    true,
	InvoiceSorts: map[string]Field{
		"invoiceNo":             invoiceCol("invoice_no"),
		"invoiceDate":           invoiceCol("invoice_date"),
		"monthOf":               invoiceCol("month_of"),
		"yearOf":                invoiceCol("year_of"),
		"totalInvoiceValue":     invoiceCol("total_invoice_value"),
		"totalTaxGST":           invoiceCol("total_tax_gst"),
		"totalTaxableValue":     invoiceCol("total_taxable_value"),
		"isOutsideDelhiInvoice": invoiceCol("is_outside_delhi_invoice"),
		"createdAt":             invoiceCol("created_at"),
		"updatedAt":             invoiceCol("updated_at"),
		"customer.customerName": customerCol("customer_name"),
		"customer.address":      customerCol("address"),
	},
	CustomerSorts: map[string]Field{
		"createdAt":    customerCol("created_at"),
		"customerName": customerCol("customer_name"),
		"state":        customerCol("state"),
	},
	ProductSorts: map[string]Field{
		"createdAt":   productCol("created_at"),
		"productName": productCol("product_name"),
		"hsnCode":     productCol("hsn_code"),
		"cgstRate":    productCol("cgst_rate"),
		"sgstRate":    productCol("sgst_rate"),
	},
	DefaultInvoiceSort:  "invoiceNo",
	DefaultCustomerSort: "createdAt",
	DefaultProductSort:  "createdAt",
	CustomerSearch: []Field{
		customerCol("customer_name"),
		customerCol("address"),
		customerCol("gst_in"),
		customerCol("state"),
	},
	fields: map[LogicalField]string{
		FieldInvoiceNumber: "invoice_no",
		FieldInvoiceDate:   "invoice_date",
		FieldTotalValue:    "total_invoice_value",
	},
}

var localDescriptor = VariantDescriptor{
	Variant: VariantLocal,
	Tables: Tables{
		Invoice:  "local_invoices",
		Customer: "local_customers",
		Product:  "local_products",
		LineItem: "local_priced_products",
	},
	InvoiceSorts: map[string]Field{
		"invoiceNo":              invoiceCol("local_invoice_no"),
		"localInvoiceNo":         invoiceCol("local_invoice_no"),
		"invoiceDate":            invoiceCol("local_invoice_date"),
		"localInvoiceDate":       invoiceCol("local_invoice_date"),
		"monthOf":                invoiceCol("month_of"),
		"yearOf":                 invoiceCol("year_of"),
		"totalInvoiceValue":      invoiceCol("local_total_invoice_value"),
		"localTotalInvoiceValue": invoiceCol("local_total_invoice_value"),
		"createdAt":              invoiceCol("created_at"),
		"updatedAt":              invoiceCol("updated_at"),
		"customer.customerName":  customerCol("customer_name"),
		"customer.address":       customerCol("address"),
	},
	CustomerSorts: map[string]Field{
		"createdAt":    customerCol("created_at"),
		"customerName": customerCol("customer_name"),
	},
	ProductSorts: map[string]Field{
		"createdAt":   productCol("created_at"),
		"productName": productCol("product_name"),
	},
	DefaultInvoiceSort:  "localInvoiceNo",
	DefaultCustomerSort: "createdAt",
	DefaultProductSort:  "createdAt",
	CustomerSearch: []Field{
		customerCol("customer_name"),
		customerCol("address"),
	},
	fields: map[LogicalField]string{
		FieldInvoiceNumber: "local_invoice_no",
		FieldInvoiceDate:   "local_invoice_date",
		FieldTotalValue:    "local_total_invoice_value",
	},
}

// ResolveVariant returns the descriptor for v. It panics on an unknown
// variant: callers holding user input must go through ParseVariant first.
func ResolveVariant(v Variant) VariantDescriptor {
	switch v {
	case VariantGST:
		return gstDescriptor
	case VariantLocal:
		return localDescriptor
	default:
		panic(fmt.Sprintf("domain: unknown variant %q", v))
	}
}
