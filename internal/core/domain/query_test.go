package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Normalize(t *testing.T) {
	q := Query{Page: 0, PageSize: 500, Search: "  abc "}.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "abc", q.Search)
	require.Len(t, q.Ordering, 1)
	assert.Equal(t, Ordering{Field: "created_at", Desc: true}, q.Ordering[0])
	assert.Equal(t, 0, q.Offset())

	q = Query{Page: 3, PageSize: 10, Ordering: []Ordering{{Field: "balance"}}}.Normalize()
	assert.Equal(t, 20, q.Offset())
	assert.Equal(t, []Ordering{{Field: "balance"}}, q.Ordering)
}

func TestEntity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		query   Query
		wantErr bool
	}{
		{"wallet balance gte", WalletEntity, Query{Filters: []Filter{{Field: "balance", Op: OpGTE, Value: "10.5"}}}, false},
		{"wallet label icontains", WalletEntity, Query{Filters: []Filter{{Field: "label", Op: OpIContains, Value: "sav"}}}, false},
		{"wallet id in", WalletEntity, Query{Filters: []Filter{{Field: "id", Op: OpIn, Value: uuid.NewString() + "," + uuid.NewString()}}}, false},
		{"wallet order by updated_at", WalletEntity, Query{Ordering: []Ordering{{Field: "updated_at", Desc: true}}}, false},
		{"transaction amount lt", TransactionEntity, Query{Filters: []Filter{{Field: "amount", Op: OpLT, Value: "-1"}}}, false},
		{"transaction txid iexact", TransactionEntity, Query{Filters: []Filter{{Field: "txid", Op: OpIExact, Value: "TX123"}}}, false},
		{"unknown field", WalletEntity, Query{Filters: []Filter{{Field: "owner", Op: OpExact, Value: "x"}}}, true},
		{"operator not allowed", WalletEntity, Query{Filters: []Filter{{Field: "label", Op: OpGT, Value: "a"}}}, true},
		{"bad decimal", WalletEntity, Query{Filters: []Filter{{Field: "balance", Op: OpLT, Value: "ten"}}}, true},
		{"bad uuid", TransactionEntity, Query{Filters: []Filter{{Field: "wallet_id", Op: OpExact, Value: "nope"}}}, true},
		{"empty in list", WalletEntity, Query{Filters: []Filter{{Field: "balance", Op: OpIn, Value: " , "}}}, true},
		{"timestamps not filterable", WalletEntity, Query{Filters: []Filter{{Field: "created_at", Op: OpExact, Value: "x"}}}, true},
		{"transaction cannot order by updated_at", TransactionEntity, Query{Ordering: []Ordering{{Field: "updated_at"}}}, true},
		{"wallet cannot order by label", WalletEntity, Query{Ordering: []Ordering{{Field: "label"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidQuery))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFilter_Values(t *testing.T) {
	assert.Equal(t, []string{"a,b"}, Filter{Op: OpExact, Value: "a,b"}.Values())
	assert.Equal(t, []string{"a", "b"}, Filter{Op: OpIn, Value: "a, b,"}.Values())
}

func TestEntity_SearchColumns(t *testing.T) {
	assert.Equal(t, []string{"balance", "label"}, WalletEntity.SearchColumns())
	assert.Equal(t, []string{"amount", "txid"}, TransactionEntity.SearchColumns())
}
