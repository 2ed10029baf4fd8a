package memory

import (
	"sort"
	"strings"
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// value is one field of a record, typed by its FieldKind.
type value struct {
	kind domain.FieldKind
	text string
	dec  decimal.Decimal
	id   uuid.UUID
	at   time.Time
}

func (v value) String() string {
	switch v.kind {
	case domain.KindUUID:
		return v.id.String()
	case domain.KindDecimal:
		// Matches the fixed-scale text the SQL backends render.
		return v.dec.StringFixed(domain.DecimalPlaces)
	case domain.KindTime:
		return v.at.Format(time.RFC3339Nano)
	}
	return v.text
}

func compare(a, b value) int {
	switch a.kind {
	case domain.KindDecimal:
		return a.dec.Cmp(b.dec)
	case domain.KindTime:
		return a.at.Compare(b.at)
	case domain.KindUUID:
		return strings.Compare(a.id.String(), b.id.String())
	}
	return strings.Compare(a.text, b.text)
}

// parse converts a filter operand to the kind of v. Query validation has
// already checked that it parses.
func parse(kind domain.FieldKind, s string) value {
	v := value{kind: kind, text: s}
	switch kind {
	case domain.KindUUID:
		v.id, _ = uuid.Parse(s)
	case domain.KindDecimal:
		v.dec, _ = decimal.NewFromString(s)
	case domain.KindTime:
		v.at, _ = time.Parse(time.RFC3339Nano, s)
	}
	return v
}

func matchFilter(v value, f domain.Filter) bool {
	switch f.Op {
	case domain.OpExact:
		return compare(v, parse(v.kind, f.Value)) == 0
	case domain.OpIExact:
		return strings.EqualFold(v.String(), f.Value)
	case domain.OpContains:
		return strings.Contains(v.String(), f.Value)
	case domain.OpIContains:
		return strings.Contains(strings.ToLower(v.String()), strings.ToLower(f.Value))
	case domain.OpLT:
		return compare(v, parse(v.kind, f.Value)) < 0
	case domain.OpLTE:
		return compare(v, parse(v.kind, f.Value)) <= 0
	case domain.OpGT:
		return compare(v, parse(v.kind, f.Value)) > 0
	case domain.OpGTE:
		return compare(v, parse(v.kind, f.Value)) >= 0
	case domain.OpIn:
		for _, s := range f.Values() {
			if compare(v, parse(v.kind, s)) == 0 {
				return true
			}
		}
	}
	return false
}

// selectPage applies q to items and returns the requested page and the
// total number of matches. field extracts a named field of an item.
func selectPage[T any](items []T, e domain.Entity, q domain.Query, field func(T, string) value, id func(T) uuid.UUID) ([]T, int64) {
	var matched []T
	search := strings.ToLower(q.Search)
	cols := e.SearchColumns()

next:
	for _, it := range items {
		for _, f := range q.Filters {
			if !matchFilter(field(it, f.Field), f) {
				continue next
			}
		}
		if search != "" {
			hit := false
			for _, c := range cols {
				if strings.Contains(strings.ToLower(field(it, c).String()), search) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		matched = append(matched, it)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range q.Ordering {
			c := compare(field(matched[i], o.Field), field(matched[j], o.Field))
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return id(matched[i]).String() < id(matched[j]).String()
	})

	total := int64(len(matched))
	start := q.Offset()
	if start >= len(matched) {
		return []T{}, total
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total
}
