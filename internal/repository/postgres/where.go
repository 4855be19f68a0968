package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"businessathi/internal/domain"
	"businessathi/internal/query"
)

// relationAlias is the table alias each relation is selected under.
var relationAlias = map[domain.Relation]string{
	domain.RelInvoice:  "i",
	domain.RelCustomer: "c",
	domain.RelProduct:  "p",
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sqlBuilder accumulates positional arguments while rendering a query.
type sqlBuilder struct {
	args []interface{}
}

func (b *sqlBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func columnRef(f domain.Field) (string, error) {
	alias, ok := relationAlias[f.Relation]
	if !ok {
		return "", fmt.Errorf("unknown relation %q", f.Relation)
	}
	if !identifier.MatchString(f.Column) {
		return "", fmt.Errorf("invalid column %q", f.Column)
	}
	return alias + "." + f.Column, nil
}

func (b *sqlBuilder) predicate(p query.Predicate) (string, error) {
	switch n := p.(type) {
	case query.And:
		return b.join(n, " AND ", "TRUE")
	case query.Or:
		return b.join(n, " OR ", "FALSE")
	case query.Cond:
		col, err := columnRef(n.Field)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case query.OpEq:
			return col + " = " + b.arg(n.Value), nil
		case query.OpGte:
			return col + " >= " + b.arg(n.Value), nil
		case query.OpLte:
			return col + " <= " + b.arg(n.Value), nil
		case query.OpContainsFold:
			s, ok := n.Value.(string)
			if !ok {
				return "", fmt.Errorf("contains on %s needs a string, got %T", n.Field, n.Value)
			}
			return col + "::text ILIKE " + b.arg("%"+likeEscaper.Replace(s)+"%"), nil
		default:
			return "", fmt.Errorf("unsupported operator %q", n.Op)
		}
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (b *sqlBuilder) join(children []query.Predicate, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, c := range children {
		s, err := b.predicate(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// buildWhereClause renders the query predicate. It returns the clause
// (starting with "WHERE") and the positional arguments.
func buildWhereClause(q query.Query) (clause string, args []interface{}, err error) {
	b := &sqlBuilder{}
	cond, err := b.predicate(q.Where)
	if err != nil {
		return "", nil, err
	}
	return "WHERE " + cond, b.args, nil
}

// buildOrderClause renders ORDER BY plus the OFFSET/LIMIT window.
func buildOrderClause(q query.Query) (string, error) {
	terms := make([]string, 0, len(q.OrderBy))
	for _, o := range q.OrderBy {
		col, err := columnRef(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	clause := ""
	if len(terms) > 0 {
		clause = "ORDER BY " + strings.Join(terms, ", ")
	}
	if q.Window.Limit > 0 {
		clause += fmt.Sprintf(" OFFSET %d LIMIT %d", q.Window.Offset, q.Window.Limit)
	}
	return strings.TrimSpace(clause), nil
}
