package postgres

import (
	"fmt"
	"strings"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// listSQL is a validated domain.Query rendered as SQL fragments.
// Column names come from the entity allow-list; values are always bound.
type listSQL struct {
	where   string // empty or "WHERE ..."
	orderBy string
	args    []any
}

func (l *listSQL) bind(v any) string {
	l.args = append(l.args, v)
	return fmt.Sprintf("$%d", len(l.args))
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (l *listSQL) page(q domain.Query) string {
	return fmt.Sprintf("LIMIT %s OFFSET %s", l.bind(q.PageSize), l.bind(q.Offset()))
}

func buildList(e domain.Entity, q domain.Query) (*listSQL, error) {
	l := &listSQL{}
	var conds []string

	for _, f := range q.Filters {
		spec, ok := e.Fields[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidQuery, f.Field)
		}
		cond, err := l.condition(spec, f)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	if q.Search != "" {
		cols := e.SearchColumns()
		if len(cols) > 0 {
			p := l.bind(q.Search)
			parts := make([]string, 0, len(cols))
			for _, c := range cols {
				parts = append(parts, fmt.Sprintf("strpos(lower(%s::text), lower(%s)) > 0", c, p))
			}
			conds = append(conds, "("+strings.Join(parts, " OR ")+")")
		}
	}

	if len(conds) > 0 {
		l.where = "WHERE " + strings.Join(conds, " AND ")
	}

	order := make([]string, 0, len(q.Ordering)+1)
	for _, o := range q.Ordering {
		spec, ok := e.Fields[o.Field]
		if !ok || !spec.Orderable {
			return nil, fmt.Errorf("%w: cannot order by %q", domain.ErrInvalidQuery, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		order = append(order, spec.Column+" "+dir)
	}
	order = append(order, "id ASC")
	l.orderBy = "ORDER BY " + strings.Join(order, ", ")

	return l, nil
}

func (l *listSQL) condition(spec domain.FieldSpec, f domain.Filter) (string, error) {
	col := spec.Column
	switch f.Op {
	case domain.OpExact, domain.OpLT, domain.OpLTE, domain.OpGT, domain.OpGTE:
		v, err := bindValue(spec.Kind, f.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", col, comparators[f.Op], l.bind(v)), nil
	case domain.OpIExact:
		return fmt.Sprintf("lower(%s) = lower(%s)", col, l.bind(f.Value)), nil
	case domain.OpContains:
		return fmt.Sprintf("strpos(%s, %s) > 0", col, l.bind(f.Value)), nil
	case domain.OpIContains:
		return fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", col, l.bind(f.Value)), nil
	case domain.OpIn:
		values := f.Values()
		ph := make([]string, 0, len(values))
		for _, s := range values {
			v, err := bindValue(spec.Kind, s)
			if err != nil {
				return "", err
			}
			ph = append(ph, l.bind(v))
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")), nil
	}
	return "", fmt.Errorf("%w: unsupported operator %q", domain.ErrInvalidQuery, f.Op)
}

var comparators = map[domain.Operator]string{
	domain.OpExact: "=",
	domain.OpLT:    "<",
	domain.OpLTE:   "<=",
	domain.OpGT:    ">",
	domain.OpGTE:   ">=",
}

func bindValue(kind domain.FieldKind, s string) (any, error) {
	switch kind {
	case domain.KindUUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		return id, nil
	case domain.KindDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		return d, nil
	}
	return s, nil
}
