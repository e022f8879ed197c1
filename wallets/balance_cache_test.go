package wallets_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-embedded-wallet/wallets"
)

func TestBalanceCacheMemoizes(t *testing.T) {
	reader := newFakeBalanceReader()
	reader.values[addrOne] = big.NewInt(100)
	cache := wallets.NewBalanceCache(reader)
	ctx := context.Background()

	first, err := cache.Balance(ctx, addrOne)
	require.NoError(t, err)
	assert.Equal(t, int64(100), first.Int64())

	second, err := cache.Balance(ctx, addrOne)
	require.NoError(t, err)
	assert.Equal(t, int64(100), second.Int64())

	assert.Equal(t, 1, reader.callCount(addrOne))
}

func TestBalanceCacheKeysOnChecksummedAddress(t *testing.T) {
	reader := newFakeBalanceReader()
	reader.values[addrOne] = big.NewInt(100)
	cache := wallets.NewBalanceCache(reader)
	ctx := context.Background()

	_, err := cache.Balance(ctx, addrOneLower)
	require.NoError(t, err)
	_, err = cache.Balance(ctx, addrOne)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.totalCalls())
}

func TestBalanceCacheSharesConcurrentLookups(t *testing.T) {
	reader := newFakeBalanceReader()
	reader.values[addrOne] = big.NewInt(100)
	reader.block = make(chan struct{})
	cache := wallets.NewBalanceCache(reader)

	var wg sync.WaitGroup
	results := make([]*big.Int, 10)
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Balance(context.Background(), addrOne)
		}(i)
	}

	// Hold the upstream call open until every goroutine has had a chance
	// to join the in-flight lookup.
	time.Sleep(100 * time.Millisecond)
	close(reader.block)
	wg.Wait()

	assert.Equal(t, 1, reader.callCount(addrOne))
	for i, balance := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, balance)
		assert.Equal(t, int64(100), balance.Int64())
	}
}

func TestBalanceCacheDoesNotCacheFailures(t *testing.T) {
	reader := newFakeBalanceReader()
	reader.err = errors.New("rpc unavailable", errors.CategoryOperation)
	cache := wallets.NewBalanceCache(reader)
	ctx := context.Background()

	_, err := cache.Balance(ctx, addrOne)
	require.Error(t, err)

	reader.mu.Lock()
	reader.err = nil
	reader.values[addrOne] = big.NewInt(5)
	reader.mu.Unlock()

	balance, err := cache.Balance(ctx, addrOne)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Int64())
	assert.Equal(t, 2, reader.callCount(addrOne))
}

func TestBalanceCacheEvict(t *testing.T) {
	reader := newFakeBalanceReader()
	reader.values[addrOne] = big.NewInt(100)
	cache := wallets.NewBalanceCache(reader)
	ctx := context.Background()

	_, err := cache.Balance(ctx, addrOne)
	require.NoError(t, err)

	cache.Evict(addrOneLower)

	_, err = cache.Balance(ctx, addrOne)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.callCount(addrOne))
}
