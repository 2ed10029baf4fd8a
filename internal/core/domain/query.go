package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operator is a filter comparison.
type Operator string

const (
	OpExact     Operator = "exact"
	OpIExact    Operator = "iexact"
	OpContains  Operator = "contains"
	OpIContains Operator = "icontains"
	OpLT        Operator = "lt"
	OpLTE       Operator = "lte"
	OpGT        Operator = "gt"
	OpGTE       Operator = "gte"
	OpIn        Operator = "in"
)

// FieldKind tells storage adapters how to bind a filter value.
type FieldKind int

const (
	KindUUID FieldKind = iota
	KindText
	KindDecimal
	KindTime
)

// FieldSpec describes one queryable column of an entity.
type FieldSpec struct {
	Column     string
	Kind       FieldKind
	Operators  []Operator
	Searchable bool
	Orderable  bool
}

func (f FieldSpec) allows(op Operator) bool {
	for _, o := range f.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Entity is the allow-list of fields for one queryable entity.
type Entity struct {
	Name   string
	Fields map[string]FieldSpec
}

// WalletEntity lists the wallet fields callers may filter, search and order on.
var WalletEntity = Entity{
	Name: "wallet",
	Fields: map[string]FieldSpec{
		"id":         {Column: "id", Kind: KindUUID, Operators: []Operator{OpExact, OpIn}},
		"label":      {Column: "label", Kind: KindText, Operators: []Operator{OpExact, OpIExact, OpContains, OpIContains}, Searchable: true},
		"balance":    {Column: "balance", Kind: KindDecimal, Operators: []Operator{OpExact, OpLT, OpLTE, OpGT, OpGTE, OpIn}, Searchable: true, Orderable: true},
		"created_at": {Column: "created_at", Kind: KindTime, Orderable: true},
		"updated_at": {Column: "updated_at", Kind: KindTime, Orderable: true},
	},
}

// TransactionEntity lists the transaction fields callers may filter, search and order on.
var TransactionEntity = Entity{
	Name: "transaction",
	Fields: map[string]FieldSpec{
		"id":         {Column: "id", Kind: KindUUID, Operators: []Operator{OpExact, OpIn}},
		"wallet_id":  {Column: "wallet_id", Kind: KindUUID, Operators: []Operator{OpExact}},
		"txid":       {Column: "txid", Kind: KindText, Operators: []Operator{OpExact, OpIExact, OpContains, OpIContains}, Searchable: true},
		"amount":     {Column: "amount", Kind: KindDecimal, Operators: []Operator{OpExact, OpLT, OpLTE, OpGT, OpGTE, OpIn}, Searchable: true, Orderable: true},
		"created_at": {Column: "created_at", Kind: KindTime, Orderable: true},
	},
}

// Filter is one {field, operator, value} constraint. For OpIn, Value is a
// comma separated list.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

// Ordering sorts by Field, descending when Desc is set.
type Ordering struct {
	Field string
	Desc  bool
}

// Pagination defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is a validated list request.
type Query struct {
	Filters  []Filter
	Search   string
	Ordering []Ordering
	Page     int
	PageSize int
}

// Offset returns the row offset of the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Normalize fills pagination and ordering defaults.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}
	if len(q.Ordering) == 0 {
		q.Ordering = []Ordering{{Field: "created_at", Desc: true}}
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Validate checks every filter and ordering against the entity's allow-list
// and that filter values parse as the field's kind.
func (e Entity) Validate(q Query) error {
	for _, f := range q.Filters {
		spec, ok := e.Fields[f.Field]
		if !ok || len(spec.Operators) == 0 {
			return fmt.Errorf("%w: %s cannot be filtered on %q", ErrInvalidQuery, e.Name, f.Field)
		}
		if !spec.allows(f.Op) {
			return fmt.Errorf("%w: operator %q not allowed on %s.%s", ErrInvalidQuery, f.Op, e.Name, f.Field)
		}
		values := f.Values()
		if len(values) == 0 {
			return fmt.Errorf("%w: empty value for %s.%s", ErrInvalidQuery, e.Name, f.Field)
		}
		for _, v := range values {
			if err := spec.check(v); err != nil {
				return fmt.Errorf("%w: %s.%s: %v", ErrInvalidQuery, e.Name, f.Field, err)
			}
		}
	}
	for _, o := range q.Ordering {
		spec, ok := e.Fields[o.Field]
		if !ok || !spec.Orderable {
			return fmt.Errorf("%w: %s cannot be ordered by %q", ErrInvalidQuery, e.Name, o.Field)
		}
	}
	return nil
}

// SearchColumns returns the columns covered by free-text search, sorted by field name.
func (e Entity) SearchColumns() []string {
	var cols []string
	for _, name := range []string{"balance", "label", "amount", "txid"} {
		if spec, ok := e.Fields[name]; ok && spec.Searchable {
			cols = append(cols, spec.Column)
		}
	}
	return cols
}

// Values splits an OpIn value; other operators yield the single value.
func (f Filter) Values() []string {
	if f.Op != OpIn {
		return []string{f.Value}
	}
	parts := strings.Split(f.Value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f FieldSpec) check(v string) error {
	switch f.Kind {
	case KindUUID:
		_, err := uuid.Parse(v)
		return err
	case KindDecimal:
		_, err := decimal.NewFromString(v)
		return err
	}
	return nil
}
