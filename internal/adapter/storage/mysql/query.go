package mysql

import (
	"fmt"
	"strings"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Decimal binds go over the wire as strings. MySQL evaluates a string in a
// numeric context as DOUBLE, so every decimal bind is cast back explicitly.
const decimalBind = "CAST(? AS DECIMAL(31,18))"

// listScope is a validated domain.Query rendered as GORM scopes. Column
// names come from the entity allow-list; values are always bound.
type listScope struct {
	where string
	args  []any
	order []string
	limit int
	skip  int
}

func buildList(e domain.Entity, q domain.Query) (*listScope, error) {
	l := &listScope{limit: q.PageSize, skip: q.Offset()}
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
			parts := make([]string, 0, len(cols))
			for _, c := range cols {
				parts = append(parts, fmt.Sprintf("LOCATE(LOWER(?), LOWER(CAST(%s AS CHAR))) > 0", c))
				l.args = append(l.args, q.Search)
			}
			conds = append(conds, "("+strings.Join(parts, " OR ")+")")
		}
	}
	l.where = strings.Join(conds, " AND ")

	for _, o := range q.Ordering {
		spec, ok := e.Fields[o.Field]
		if !ok || !spec.Orderable {
			return nil, fmt.Errorf("%w: cannot order by %q", domain.ErrInvalidQuery, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		l.order = append(l.order, spec.Column+" "+dir)
	}
	l.order = append(l.order, "id ASC")

	return l, nil
}

// filter applies the WHERE part only, for counting.
func (l *listScope) filter(db *gorm.DB) *gorm.DB {
	if l.where == "" {
		return db
	}
	return db.Where(l.where, l.args...)
}

// page applies ordering and pagination.
func (l *listScope) page(db *gorm.DB) *gorm.DB {
	for _, o := range l.order {
		db = db.Order(o)
	}
	return db.Limit(l.limit).Offset(l.skip)
}

func (l *listScope) condition(spec domain.FieldSpec, f domain.Filter) (string, error) {
	col := spec.Column
	switch f.Op {
	case domain.OpExact, domain.OpLT, domain.OpLTE, domain.OpGT, domain.OpGTE:
		v, err := bindValue(spec.Kind, f.Value)
		if err != nil {
			return "", err
		}
		l.args = append(l.args, v)
		return fmt.Sprintf("%s %s %s", binaryColumn(spec), comparators[f.Op], placeholder(spec.Kind)), nil
	case domain.OpIExact:
		l.args = append(l.args, f.Value)
		return fmt.Sprintf("LOWER(%s) = LOWER(?)", col), nil
	case domain.OpContains:
		l.args = append(l.args, f.Value)
		return fmt.Sprintf("LOCATE(?, %s) > 0", binaryColumn(spec)), nil
	case domain.OpIContains:
		l.args = append(l.args, f.Value)
		return fmt.Sprintf("LOCATE(LOWER(?), LOWER(%s)) > 0", col), nil
	case domain.OpIn:
		values := f.Values()
		ph := make([]string, 0, len(values))
		for _, s := range values {
			v, err := bindValue(spec.Kind, s)
			if err != nil {
				return "", err
			}
			l.args = append(l.args, v)
			ph = append(ph, placeholder(spec.Kind))
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")), nil
	}
	return "", fmt.Errorf("%w: unsupported operator %q", domain.ErrInvalidQuery, f.Op)
}

// binaryColumn makes text comparisons case sensitive under the default
// case-insensitive utf8mb4 collation.
func binaryColumn(spec domain.FieldSpec) string {
	if spec.Kind == domain.KindText {
		return spec.Column + " COLLATE utf8mb4_bin"
	}
	return spec.Column
}

func placeholder(kind domain.FieldKind) string {
	if kind == domain.KindDecimal {
		return decimalBind
	}
	return "?"
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
