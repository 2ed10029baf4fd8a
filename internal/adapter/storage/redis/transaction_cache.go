package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"walletx/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// TransactionCache implements ports.TransactionCache. Transactions never
// change once committed, so a cached copy cannot go stale; wallets and
// balances are never cached.
type TransactionCache struct {
	client *goredis.Client
	prefix string
}

// NewTransactionCache creates a new Redis-backed transaction cache.
func NewTransactionCache(client *goredis.Client) *TransactionCache {
	return &TransactionCache{
		client: client,
		prefix: "tx:",
	}
}

// Get returns the cached transaction, or nil, nil on a miss.
func (c *TransactionCache) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	val, err := c.client.Get(ctx, c.prefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis tx cache get: %w", err)
	}

	var t domain.Transaction
	if err := json.Unmarshal(val, &t); err != nil {
		return nil, fmt.Errorf("decoding cached transaction %s: %w", id, err)
	}
	return &t, nil
}

// Set stores a committed transaction with TTL.
func (c *TransactionCache) Set(ctx context.Context, t *domain.Transaction, ttl time.Duration) error {
	val, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding transaction %s: %w", t.ID, err)
	}
	if err := c.client.Set(ctx, c.prefix+t.ID.String(), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis tx cache set: %w", err)
	}
	return nil
}
