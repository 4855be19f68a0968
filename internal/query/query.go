// Package query turns caller filter parameters into a storage-neutral query:
// a predicate tree, an ordering and a window. Storage adapters render it.
package query

import (
	"time"

	"github.com/google/uuid"

	"businessathi/internal/domain"
)

// Op is a comparison operator.
type Op string

const (
	OpEq           Op = "eq"
	OpGte          Op = "gte"
	OpLte          Op = "lte"
	OpContainsFold Op = "contains_fold"
)

// Predicate is a node of the filter tree: And, Or or Cond.
type Predicate interface {
	isPredicate()
}

// And matches when every child matches.
type And []Predicate

// Or matches when any child matches.
type Or []Predicate

// Cond compares one field with a value. Value is one of string, int64,
// uuid.UUID or time.Time.
type Cond struct {
	Field domain.Field
	Op    Op
	Value interface{}
}

func (And) isPredicate()  {}
func (Or) isPredicate()   {}
func (Cond) isPredicate() {}

// Eq builds an equality condition.
func Eq(f domain.Field, v interface{}) Cond { return Cond{Field: f, Op: OpEq, Value: v} }

// Gte builds a lower-bound condition.
func Gte(f domain.Field, t time.Time) Cond { return Cond{Field: f, Op: OpGte, Value: t} }

// Lte builds an upper-bound condition.
func Lte(f domain.Field, t time.Time) Cond { return Cond{Field: f, Op: OpLte, Value: t} }

// ContainsFold builds a case-insensitive substring condition.
func ContainsFold(f domain.Field, s string) Cond {
	return Cond{Field: f, Op: OpContainsFold, Value: s}
}

// Order is one ordering term.
type Order struct {
	Field domain.Field
	Desc  bool
}

// Window is the offset/limit pair of a page.
type Window struct {
	Offset int
	Limit  int
}

// Query is the full description of a filtered, sorted page.
type Query struct {
	Variant domain.Variant
	Entity  domain.Entity
	UserID  uuid.UUID
	Where   And
	OrderBy []Order
	Window  Window

	Page     int
	PageSize int
}

// Root returns the relation the query selects from.
func (q Query) Root() domain.Relation {
	switch q.Entity {
	case domain.EntityCustomer:
		return domain.RelCustomer
	case domain.EntityProduct:
		return domain.RelProduct
	default:
		return domain.RelInvoice
	}
}
