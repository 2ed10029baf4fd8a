package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet_StartsAtZero(t *testing.T) {
	now := time.Now().UTC()
	w := NewWallet("Test Wallet", now)

	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.Equal(t, "Test Wallet", w.Label)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, now, w.CreatedAt)
	assert.Equal(t, now, w.UpdatedAt)
}

func TestTransaction_Direction(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		credit bool
		debit  bool
	}{
		{"credit", "10", true, false},
		{"debit", "-10", false, true},
		{"zero", "0", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := NewTransaction(uuid.New(), "tx", decimal.RequireFromString(tt.amount), time.Now())
			assert.Equal(t, tt.credit, tx.IsCredit())
			assert.Equal(t, tt.debit, tx.IsDebit())
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"integer", "10", false},
		{"negative", "-10.5", false},
		{"eighteen places", "0.000000000000000001", false},
		{"trailing zeros beyond scale", "1.0000000000000000000000", false},
		{"nineteen places", "0.0000000000000000001", true},
		{"max integer digits", "999999999999.999999999999999999", false},
		{"too many integer digits", "1000000000000", true},
		{"not a number", "abc", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAmountOutOfRange))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseAmount_PreservesPrecision(t *testing.T) {
	d, err := ParseAmount("100.000000000000000001")
	require.NoError(t, err)

	sum := d.Add(decimal.RequireFromString("-10"))
	assert.Equal(t, "90.000000000000000001", sum.String())
}
