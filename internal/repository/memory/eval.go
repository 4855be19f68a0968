package memory

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// record is a flattened row keyed by relation and column. A missing key
// behaves like SQL NULL: it never matches and sorts last ascending.
type record map[domain.Field]interface{}

func (r record) set(rel domain.Relation, col string, v interface{}) {
	r[domain.Field{Relation: rel, Column: col}] = v
}

func (r record) matches(p query.Predicate) bool {
	switch n := p.(type) {
	case query.And:
		for _, c := range n {
			if !r.matches(c) {
				return false
			}
		}
		return true
	case query.Or:
		for _, c := range n {
			if r.matches(c) {
				return true
			}
		}
		return false
	case query.Cond:
		v, ok := r[n.Field]
		if !ok || v == nil {
			return false
		}
		switch n.Op {
		case query.OpEq:
			c, ok := compare(v, n.Value)
			return ok && c == 0
		case query.OpGte:
			c, ok := compare(v, n.Value)
			return ok && c >= 0
		case query.OpLte:
			c, ok := compare(v, n.Value)
			return ok && c <= 0
		case query.OpContainsFold:
			s, _ := n.Value.(string)
			return strings.Contains(strings.ToLower(text(v)), strings.ToLower(s))
		}
	}
	return false
}

// less orders two records by the query ordering. NULLs sort last ascending
// and first descending, as Postgres does by default.
func less(a, b record, orders []query.Order) bool {
	for _, o := range orders {
		av, aok := a[o.Field]
		bv, bok := b[o.Field]
		var c int
		switch {
		case !aok && !bok:
			c = 0
		case !aok:
			c = 1
		case !bok:
			c = -1
		default:
			c, _ = compare(av, bv)
		}
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}

// compare returns -1, 0 or 1; ok is false when the types are not comparable.
func compare(a, b interface{}) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case int64:
		y, ok := b.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case uuid.UUID:
		y, ok := b.(uuid.UUID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		if !ok {
			return 0, false
		}
		return x.Cmp(y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func text(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
