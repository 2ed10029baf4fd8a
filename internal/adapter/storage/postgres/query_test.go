package postgres

import (
	"testing"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildList(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		entity  domain.Entity
		query   domain.Query
		where   string
		orderBy string
		args    []any
	}{
		{
			name:    "defaults",
			entity:  domain.WalletEntity,
			query:   domain.Query{}.Normalize(),
			where:   "",
			orderBy: "ORDER BY created_at DESC, id ASC",
		},
		{
			name:   "range and text filters",
			entity: domain.WalletEntity,
			query: domain.Query{
				Filters: []domain.Filter{
					{Field: "balance", Op: domain.OpGTE, Value: "10.5"},
					{Field: "label", Op: domain.OpIContains, Value: "Main"},
				},
				Ordering: []domain.Ordering{{Field: "balance"}},
			},
			where:   "WHERE balance >= $1 AND strpos(lower(label), lower($2)) > 0",
			orderBy: "ORDER BY balance ASC, id ASC",
			args:    []any{decimal.RequireFromString("10.5"), "Main"},
		},
		{
			name:   "in list of ids",
			entity: domain.TransactionEntity,
			query: domain.Query{
				Filters: []domain.Filter{{Field: "id", Op: domain.OpIn, Value: id1.String() + "," + id2.String()}},
			},
			where:   "WHERE id IN ($1, $2)",
			orderBy: "ORDER BY id ASC",
			args:    []any{id1, id2},
		},
		{
			name:    "search",
			entity:  domain.TransactionEntity,
			query:   domain.Query{Search: "abc", Ordering: []domain.Ordering{{Field: "amount", Desc: true}}},
			where:   "WHERE (strpos(lower(amount::text), lower($1)) > 0 OR strpos(lower(txid::text), lower($1)) > 0)",
			orderBy: "ORDER BY amount DESC, id ASC",
			args:    []any{"abc"},
		},
		{
			name:    "iexact",
			entity:  domain.TransactionEntity,
			query:   domain.Query{Filters: []domain.Filter{{Field: "txid", Op: domain.OpIExact, Value: "TX"}}},
			where:   "WHERE lower(txid) = lower($1)",
			orderBy: "ORDER BY id ASC",
			args:    []any{"TX"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := buildList(tt.entity, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.where, l.where)
			assert.Equal(t, tt.orderBy, l.orderBy)
			assert.Equal(t, tt.args, l.args)
		})
	}
}

func TestBuildList_Page(t *testing.T) {
	q := domain.Query{Page: 3, PageSize: 10}.Normalize()
	l, err := buildList(domain.WalletEntity, q)
	require.NoError(t, err)
	assert.Equal(t, "LIMIT $1 OFFSET $2", l.page(q))
	assert.Equal(t, []any{10, 20}, l.args)
}

func TestBuildList_Rejects(t *testing.T) {
	_, err := buildList(domain.WalletEntity, domain.Query{Ordering: []domain.Ordering{{Field: "label"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = buildList(domain.WalletEntity, domain.Query{Filters: []domain.Filter{{Field: "nope", Op: domain.OpExact, Value: "1"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = buildList(domain.WalletEntity, domain.Query{Filters: []domain.Filter{{Field: "balance", Op: domain.OpLT, Value: "x"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}
