package domain

import (
	"fmt"
	"strings"
)

// Variant selects one of the two parallel invoicing domains.
type Variant string

const (
	VariantGST   Variant = "gst"
	VariantLocal Variant = "local"
)

// ParseVariant validates user-supplied variant text. Unlike ResolveVariant it
// never panics.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantGST:
		return VariantGST, nil
	case VariantLocal:
		return VariantLocal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

// Label is the upper-case form used in sheet names and filenames.
func (v Variant) Label() string {
	return strings.ToUpper(string(v))
}

// Entity names the record kind a query or export targets.
type Entity string

const (
	EntityInvoice  Entity = "invoice"
	EntityCustomer Entity = "customer"
	EntityProduct  Entity = "product"
)

// ExportFormat is the serialization requested for an export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat validates the export format.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// SortOrder is the direction of an ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
