package wallets

import (
	"context"
	"math/big"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BalanceCache memoizes resolved balance lookups per checksummed address.
// Concurrent lookups of the same address share a single upstream call; a
// failed lookup stores nothing, so the next lookup retries instead of
// serving a poisoned entry.
type BalanceCache struct {
	mu     sync.Mutex
	values map[string]*big.Int
	group  singleflight.Group
	reader BalanceReader
}

func NewBalanceCache(reader BalanceReader) *BalanceCache {
	return &BalanceCache{
		values: map[string]*big.Int{},
		reader: reader,
	}
}

// Balance returns the cached balance for the address, sharing one
// in-flight upstream call between concurrent cache misses.
func (c *BalanceCache) Balance(ctx context.Context, address string) (*big.Int, error) {
	key := NormalizeAddress(address)

	c.mu.Lock()
	if cached, ok := c.values[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do(key, func() (any, error) {
		balance, err := c.reader.Balance(ctx, key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.values[key] = balance
		c.mu.Unlock()

		return balance, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*big.Int), nil
}

// Evict drops a resolved entry so the next lookup goes upstream, e.g.
// after an on-chain transfer.
func (c *BalanceCache) Evict(address string) {
	key := NormalizeAddress(address)
	c.mu.Lock()
	delete(c.values, key)
	c.mu.Unlock()
}
