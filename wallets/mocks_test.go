package wallets_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/goliatone/go-embedded-wallet/wallets"
)

// fakeWalletService is a stateful stand-in for the upstream wallet source
// of truth: creations mutate the list the next ListWallets returns, the
// same way the real backend behaves across the creation/refresh boundary.
type fakeWalletService struct {
	mu      sync.Mutex
	wallets []wallets.Wallet

	listErr          error
	createWalletErr  error
	createAccountErr error

	nextWalletID string
	nextAddress  string

	listCalls int
}

func (f *fakeWalletService) ListWallets(ctx context.Context) ([]wallets.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]wallets.Wallet, len(f.wallets))
	copy(out, f.wallets)
	return out, nil
}

func (f *fakeWalletService) CreateWallet(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createWalletErr != nil {
		return "", f.createWalletErr
	}
	f.wallets = append(f.wallets, wallets.Wallet{
		WalletID:   f.nextWalletID,
		WalletName: name,
	})
	return f.nextWalletID, nil
}

func (f *fakeWalletService) CreateAccount(ctx context.Context, walletID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return "", f.createAccountErr
	}
	for i := range f.wallets {
		if f.wallets[i].WalletID == walletID {
			f.wallets[i].Accounts = append(f.wallets[i].Accounts, wallets.Account{
				Address: f.nextAddress,
			})
		}
	}
	return f.nextAddress, nil
}

type fakeBalanceReader struct {
	mu     sync.Mutex
	values map[string]*big.Int
	err    error
	calls  map[string]int
	block  chan struct{}
}

func newFakeBalanceReader() *fakeBalanceReader {
	return &fakeBalanceReader{
		values: map[string]*big.Int{},
		calls:  map[string]int{},
	}
}

func (f *fakeBalanceReader) Balance(ctx context.Context, address string) (*big.Int, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[address]++
	if f.err != nil {
		return nil, f.err
	}
	if value, ok := f.values[address]; ok {
		return value, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeBalanceReader) callCount(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}

func (f *fakeBalanceReader) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

type memPrefStore struct {
	mu    sync.Mutex
	prefs map[string]wallets.Preferred
	saves int
}

func newMemPrefStore() *memPrefStore {
	return &memPrefStore{prefs: map[string]wallets.Preferred{}}
}

func (m *memPrefStore) Load(ctx context.Context, userID string) (wallets.Preferred, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs[userID], nil
}

func (m *memPrefStore) Save(ctx context.Context, pref wallets.Preferred) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[pref.UserID] = pref
	m.saves++
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(format string, args ...any) {}
func (silentLogger) Info(format string, args ...any)  {}
func (silentLogger) Warn(format string, args ...any)  {}
func (silentLogger) Error(format string, args ...any) {}
