package dto

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"walletx/internal/core/domain"
)

// Reserved list parameters; every other key is a filter.
const (
	paramSearch   = "search"
	paramOrdering = "ordering"
	paramPage     = "page"
	paramPageSize = "page_size"
)

// ParseQuery turns list query parameters into a domain.Query. Filters use
// the field__operator form (balance__gte=10, id__in=a,b); a bare field means
// exact. Ordering is a comma separated field list, "-" marking descending.
// A page_size above the maximum is clamped. Fields and operators are checked
// later against the entity allow-list.
func ParseQuery(values url.Values) (domain.Query, error) {
	var q domain.Query

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		switch key {
		case paramSearch:
			q.Search = vals[0]
		case paramOrdering:
			q.Ordering = parseOrdering(vals[0])
		case paramPage:
			n, err := strconv.Atoi(vals[0])
			if err != nil || n < 1 {
				return domain.Query{}, fmt.Errorf("invalid page %q", vals[0])
			}
			q.Page = n
		case paramPageSize:
			n, err := strconv.Atoi(vals[0])
			if err != nil || n < 1 {
				return domain.Query{}, fmt.Errorf("invalid page_size %q", vals[0])
			}
			q.PageSize = min(n, domain.MaxPageSize)
		default:
			field, op := splitFilterKey(key)
			for _, v := range vals {
				q.Filters = append(q.Filters, domain.Filter{Field: field, Op: op, Value: v})
			}
		}
	}
	return q, nil
}

func splitFilterKey(key string) (string, domain.Operator) {
	field, op, found := strings.Cut(key, "__")
	if !found {
		return key, domain.OpExact
	}
	return field, domain.Operator(op)
}

func parseOrdering(raw string) []domain.Ordering {
	var out []domain.Ordering
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			out = append(out, domain.Ordering{Field: part[1:], Desc: true})
			continue
		}
		out = append(out, domain.Ordering{Field: part})
	}
	return out
}
