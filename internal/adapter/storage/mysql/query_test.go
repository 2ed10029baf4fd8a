package mysql

import (
	"testing"
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildList_SQL(t *testing.T) {
	walletID := uuid.MustParse("7f1c2d3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f")

	tests := []struct {
		name   string
		entity domain.Entity
		query  domain.Query
		want   []string
	}{
		{
			name:   "defaults",
			entity: domain.WalletEntity,
			query:  domain.Query{},
			want:   []string{"SELECT * FROM `wallets` ORDER BY created_at DESC,id ASC LIMIT 20"},
		},
		{
			name:   "case sensitive exact on text",
			entity: domain.WalletEntity,
			query:  domain.Query{Filters: []domain.Filter{{Field: "label", Op: domain.OpExact, Value: "Alpha"}}},
			want:   []string{"WHERE label COLLATE utf8mb4_bin = 'Alpha'"},
		},
		{
			name:   "decimal comparison is cast",
			entity: domain.WalletEntity,
			query:  domain.Query{Filters: []domain.Filter{{Field: "balance", Op: domain.OpGTE, Value: "10.5"}}},
			want:   []string{"WHERE balance >= CAST('10.5' AS DECIMAL(31,18))"},
		},
		{
			name:   "in list",
			entity: domain.WalletEntity,
			query:  domain.Query{Filters: []domain.Filter{{Field: "balance", Op: domain.OpIn, Value: "1, 2"}}},
			want:   []string{"balance IN (CAST('1' AS DECIMAL(31,18)), CAST('2' AS DECIMAL(31,18)))"},
		},
		{
			name:   "icontains",
			entity: domain.TransactionEntity,
			query:  domain.Query{Filters: []domain.Filter{{Field: "txid", Op: domain.OpIContains, Value: "ABC"}}},
			want:   []string{"FROM `transactions`", "LOCATE(LOWER('ABC'), LOWER(txid)) > 0"},
		},
		{
			name:   "wallet and search",
			entity: domain.TransactionEntity,
			query: domain.Query{
				Filters: []domain.Filter{{Field: "wallet_id", Op: domain.OpExact, Value: walletID.String()}},
				Search:  "12",
			},
			want: []string{
				"wallet_id = '" + walletID.String() + "'",
				"(LOCATE(LOWER('12'), LOWER(CAST(amount AS CHAR))) > 0 OR LOCATE(LOWER('12'), LOWER(CAST(txid AS CHAR))) > 0)",
			},
		},
		{
			name:   "ordering and page",
			entity: domain.TransactionEntity,
			query:  domain.Query{Ordering: []domain.Ordering{{Field: "amount"}}, Page: 3, PageSize: 5},
			want:   []string{"ORDER BY amount ASC,id ASC LIMIT 5 OFFSET 10"},
		},
	}

	db := offlineDB(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query.Normalize()
			if tt.query.PageSize != 0 {
				q.PageSize = tt.query.PageSize
			}
			l, err := buildList(tt.entity, q)
			require.NoError(t, err)

			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				if tt.entity.Name == domain.WalletEntity.Name {
					var rows []walletModel
					return tx.Scopes(l.filter, l.page).Find(&rows)
				}
				var rows []transactionModel
				return tx.Scopes(l.filter, l.page).Find(&rows)
			})
			for _, fragment := range tt.want {
				assert.Contains(t, sql, fragment)
			}
		})
	}
}

func TestBuildList_RejectsUnknownField(t *testing.T) {
	_, err := buildList(domain.WalletEntity, domain.Query{Filters: []domain.Filter{{Field: "nope", Op: domain.OpExact, Value: "x"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = buildList(domain.WalletEntity, domain.Query{Ordering: []domain.Ordering{{Field: "label"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestAdjustBalance_SQL(t *testing.T) {
	db := offlineDB(t)
	id := uuid.MustParse("7f1c2d3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f")

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return adjustBalance(tx, id, decimal.NewFromInt(-10), time.Now().UTC())
	})

	assert.Contains(t, sql, "UPDATE `wallets` SET `balance`=balance + CAST('-10' AS DECIMAL(31,18))")
	assert.Contains(t, sql, "id = '"+id.String()+"'")
	assert.Contains(t, sql, "balance + CAST('-10' AS DECIMAL(31,18)) >= 0")
}
