package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMissingUserID     = errors.New("user id is required")
	ErrInvalidVariant    = errors.New("invalid invoice type")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidSortKey    = errors.New("invalid sort key")
	ErrInvalidSortOrder  = errors.New("invalid sort order")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrNothingToExport   = errors.New("nothing to export")
	ErrExportTooLarge    = errors.New("export exceeds maximum row count")
	ErrIntegrity         = errors.New("data integrity violation")
	ErrTotalsMismatch    = errors.New("invoice totals are inconsistent")
	ErrOperationFailed   = errors.New("operation failed")
)

// IntegrityError reports an invoice whose customer or product reference
// does not resolve.
type IntegrityError struct {
	InvoiceID  uuid.UUID
	Reference  string
	ReferredID uuid.UUID
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("invoice %s: dangling %s reference %s", e.InvoiceID, e.Reference, e.ReferredID)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// NothingToExportError carries the entity name so the message reads
// "no invoices found for export".
type NothingToExportError struct {
	Entity Entity
}

func (e *NothingToExportError) Error() string {
	return fmt.Sprintf("no %ss found for export", e.Entity)
}

func (e *NothingToExportError) Unwrap() error { return ErrNothingToExport }

// OperationError is the user-facing failure returned by outer operations.
// The underlying storage or serialization error is logged, never exposed.
type OperationError struct {
	Message string
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return ErrOperationFailed }
