package wallets

import (
	"context"
	"sync"
)

// DefaultWalletName names wallets created without an explicit name.
const DefaultWalletName = "New Wallet"

// Controller is the effect layer around Reduce. It owns the upstream
// refresh cycle, the two-step creation flows, preferred-wallet
// persistence, and balance population through the cache.
type Controller struct {
	mu    sync.Mutex
	state State
	subs  []func(State)

	svc      WalletService
	balances *BalanceCache
	prefs    PreferenceStore
	logger   Logger

	userID string
}

func NewController(svc WalletService, reader BalanceReader, prefs PreferenceStore) *Controller {
	return &Controller{
		svc:      svc,
		balances: NewBalanceCache(reader),
		prefs:    prefs,
		logger:   defLogger{},
	}
}

func (c *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers an observer invoked after every transition.
func (c *Controller) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// SetUser scopes the controller to the authenticated user, resetting any
// previous user's selection state.
func (c *Controller) SetUser(userID string) {
	c.mu.Lock()
	changed := c.userID != userID
	c.userID = userID
	c.mu.Unlock()

	if changed {
		c.dispatch(Event{Type: EventReset})
	}
}

// Reset clears all state, e.g. on logout or unmount. Pending markers are
// dropped without resolving.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.userID = ""
	c.mu.Unlock()
	c.dispatch(Event{Type: EventReset})
}

// Refresh pulls the upstream wallet list and reconciles selection against
// it. Balance population for a newly selected account follows the reduce.
func (c *Controller) Refresh(ctx context.Context) error {
	snapshot, err := c.svc.ListWallets(ctx)
	if err != nil {
		c.logger.Error("wallet list refresh error: %v", err)
		c.dispatch(Event{Type: EventError, Error: ErrRefreshFailed.Error()})
		return ErrRefreshFailed
	}

	pref := c.loadPreference(ctx)

	c.mu.Lock()
	userID := c.userID
	previous := c.state.SelectedWalletID
	c.mu.Unlock()

	c.dispatch(Event{
		Type:      EventSnapshot,
		Wallets:   snapshot,
		Preferred: pref,
		UserID:    userID,
	})

	// Reconciliation can move the selection, e.g. when a pending wallet
	// resolves or the first wallet is auto-selected. Persist so a reload
	// restores the same wallet.
	c.mu.Lock()
	selected := c.state.SelectedWalletID
	c.mu.Unlock()
	if selected != "" && selected != previous {
		c.savePreference(ctx, Preferred{UserID: userID, WalletID: selected})
	}

	c.syncBalance(ctx)
	return nil
}

// NewWallet issues the creation call, records the returned id as the
// pending selection, and forces a refresh; the refresh that contains the
// wallet resolves the selection.
func (c *Controller) NewWallet(ctx context.Context, name string) error {
	c.dispatch(Event{Type: EventLoading, Loading: true})
	defer c.dispatch(Event{Type: EventLoading, Loading: false})

	if name == "" {
		name = DefaultWalletName
	}

	walletID, err := c.svc.CreateWallet(ctx, name)
	if err != nil {
		c.logger.Error("wallet creation error: %v", err)
		c.dispatch(Event{Type: EventError, Error: ErrCreateWalletFailed.Error()})
		return ErrCreateWalletFailed
	}
	if walletID != "" {
		c.dispatch(Event{Type: EventPendingWallet, WalletID: walletID})
	}

	return c.Refresh(ctx)
}

// NewAccount creates an account inside the selected wallet, recording the
// returned address as the pending selection before the forced refresh.
func (c *Controller) NewAccount(ctx context.Context) error {
	c.dispatch(Event{Type: EventLoading, Loading: true})
	defer c.dispatch(Event{Type: EventLoading, Loading: false})

	c.mu.Lock()
	walletID := c.state.SelectedWalletID
	c.mu.Unlock()

	if walletID == "" {
		c.dispatch(Event{Type: EventError, Error: ErrNoWalletSelected.Error()})
		return ErrNoWalletSelected
	}

	address, err := c.svc.CreateAccount(ctx, walletID)
	if err != nil {
		c.logger.Error("account creation error: %v", err)
		c.dispatch(Event{Type: EventError, Error: ErrCreateAccountFailed.Error()})
		return ErrCreateAccountFailed
	}
	if address != "" {
		c.dispatch(Event{Type: EventPendingAccount, Address: address})
	}

	return c.Refresh(ctx)
}

// SelectWallet is an explicit user selection; it persists the preference
// and re-syncs the account selection and balance.
func (c *Controller) SelectWallet(ctx context.Context, walletID string) error {
	c.mu.Lock()
	known := findWallet(c.state.Wallets, walletID) != nil
	userID := c.userID
	c.mu.Unlock()

	if !known {
		return ErrUnknownWallet
	}

	c.dispatch(Event{Type: EventSelectWallet, WalletID: walletID})
	c.savePreference(ctx, Preferred{UserID: userID, WalletID: walletID})
	c.syncBalance(ctx)
	return nil
}

// SelectAccount selects an address within the selected wallet and fetches
// its balance through the cache. The selection lands immediately with a
// nil balance; the balance is applied in place once resolved. A failed
// lookup leaves the entry evicted so re-selecting retries.
func (c *Controller) SelectAccount(ctx context.Context, address string) error {
	key := NormalizeAddress(address)

	c.mu.Lock()
	wallet := c.state.SelectedWallet()
	known := wallet != nil && findAccount(wallet.Accounts, key) != nil
	c.mu.Unlock()

	if !known {
		return ErrUnknownAccount
	}

	c.dispatch(Event{Type: EventSelectAccount, Address: key})
	c.syncBalance(ctx)
	return nil
}

// syncBalance populates the selected account's balance when it has none.
func (c *Controller) syncBalance(ctx context.Context) {
	c.mu.Lock()
	selected := c.state.SelectedAccount
	c.mu.Unlock()

	if selected == nil || selected.Balance != nil {
		return
	}

	balance, err := c.balances.Balance(ctx, selected.Address)
	if err != nil {
		c.logger.Warn("balance fetch error for %s: %v", selected.Address, err)
		c.dispatch(Event{Type: EventError, Error: ErrBalanceFailed.Error()})
		return
	}

	c.dispatch(Event{Type: EventBalance, Address: selected.Address, Balance: balance})
}

func (c *Controller) loadPreference(ctx context.Context) Preferred {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()

	if c.prefs == nil || userID == "" {
		return Preferred{}
	}

	pref, err := c.prefs.Load(ctx, userID)
	if err != nil {
		c.logger.Debug("preferred wallet load error: %v", err)
		return Preferred{}
	}
	return pref
}

func (c *Controller) savePreference(ctx context.Context, pref Preferred) {
	if c.prefs == nil || pref.UserID == "" {
		return
	}
	if err := c.prefs.Save(ctx, pref); err != nil {
		c.logger.Warn("preferred wallet save error: %v", err)
	}
}

func (c *Controller) dispatch(event Event) {
	c.mu.Lock()
	c.state = Reduce(c.state, event)
	state := c.state
	subs := make([]func(State), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
