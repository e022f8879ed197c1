package wallets

import "math/big"

// State is the wallet controller's observable surface. PendingWalletID and
// PendingAccount are the single-slot forward markers bridging optimistic
// selection across the creation/refresh boundary; each is cleared exactly
// once, on first match in a snapshot or on Reset.
type State struct {
	Loading bool
	Error   string
	Wallets []Wallet

	SelectedWalletID string
	SelectedAccount  *Account

	PendingWalletID string
	PendingAccount  string
}

// SelectedWallet returns the selected wallet from the current snapshot, or
// nil when nothing is selected.
func (s State) SelectedWallet() *Wallet {
	return findWallet(s.Wallets, s.SelectedWalletID)
}

type EventType string

const (
	EventLoading        EventType = "loading"
	EventError          EventType = "error"
	EventSnapshot       EventType = "snapshot"
	EventSelectWallet   EventType = "select_wallet"
	EventSelectAccount  EventType = "select_account"
	EventPendingWallet  EventType = "pending_wallet"
	EventPendingAccount EventType = "pending_account"
	EventBalance        EventType = "balance"
	EventReset          EventType = "reset"
)

// Event is a single reducer input. Only the fields matching Type are read.
type Event struct {
	Type      EventType
	Loading   bool
	Error     string
	Wallets   []Wallet
	Preferred Preferred
	UserID    string
	WalletID  string
	Address   string
	Balance   *big.Int
}

// Reduce is the pure transition function over wallet state. It performs no
// I/O; the Controller layers listing, creation, persistence, and balance
// effects around it.
func Reduce(state State, event Event) State {
	switch event.Type {
	case EventLoading:
		state.Loading = event.Loading
		return state
	case EventError:
		state.Error = event.Error
		return state
	case EventSnapshot:
		return reconcile(state, event.Wallets, event.Preferred, event.UserID)
	case EventSelectWallet:
		return selectWallet(state, event.WalletID)
	case EventSelectAccount:
		return selectAccount(state, event.Address)
	case EventPendingWallet:
		state.PendingWalletID = event.WalletID
		return state
	case EventPendingAccount:
		state.PendingAccount = NormalizeAddress(event.Address)
		return state
	case EventBalance:
		return applyBalance(state, event.Address, event.Balance)
	case EventReset:
		return State{}
	default:
		return state
	}
}

// reconcile runs whenever the upstream wallet list changes:
//
//  1. normalize every account address to checksummed form
//  2. a pending wallet creation found in the snapshot wins selection
//  3. else a pending account creation found in the selected wallet wins
//  4. else, with nothing selected, fall back to the preferred wallet if it
//     still exists, otherwise the first wallet
//  5. keep the selected wallet in sync with the fresh snapshot without
//     resetting the selected account unless it disappeared
//
// A refresh alone never regresses an explicit selection; only rules 2-3
// may move it.
func reconcile(state State, snapshot []Wallet, pref Preferred, userID string) State {
	state.Wallets = normalizeWallets(snapshot)

	if len(state.Wallets) == 0 {
		state.SelectedWalletID = ""
		state.SelectedAccount = nil
		return state
	}

	if state.PendingWalletID != "" {
		if match := findWallet(state.Wallets, state.PendingWalletID); match != nil {
			state.PendingWalletID = ""
			if match.WalletID != state.SelectedWalletID {
				state.PendingAccount = ""
			}
			return selectWallet(state, match.WalletID)
		}
	} else if state.PendingAccount != "" && state.SelectedWalletID != "" {
		if current := findWallet(state.Wallets, state.SelectedWalletID); current != nil {
			if account := findAccount(current.Accounts, state.PendingAccount); account != nil {
				state.PendingAccount = ""
				return selectAccount(state, account.Address)
			}
		}
	}

	if state.SelectedWalletID == "" || findWallet(state.Wallets, state.SelectedWalletID) == nil {
		chosen := state.Wallets[0]
		if pref.UserID != "" && pref.UserID == userID && pref.WalletID != "" {
			if preferred := findWallet(state.Wallets, pref.WalletID); preferred != nil {
				chosen = *preferred
			}
		}
		return selectWallet(state, chosen.WalletID)
	}

	return syncSelection(state)
}

// selectWallet sets the wallet selection and repairs the account selection
// so it always belongs to the selected wallet.
func selectWallet(state State, walletID string) State {
	wallet := findWallet(state.Wallets, walletID)
	if wallet == nil {
		return state
	}
	state.SelectedWalletID = wallet.WalletID
	return syncSelection(state)
}

// selectAccount selects an address within the selected wallet, preserving
// a previously fetched balance when the address is unchanged.
func selectAccount(state State, address string) State {
	wallet := state.SelectedWallet()
	if wallet == nil {
		return state
	}

	key := NormalizeAddress(address)
	account := findAccount(wallet.Accounts, key)
	if account == nil {
		return state
	}

	selected := *account
	if state.SelectedAccount != nil && state.SelectedAccount.Address == key && selected.Balance == nil {
		selected.Balance = state.SelectedAccount.Balance
	}
	state.SelectedAccount = &selected
	return state
}

// syncSelection revalidates the selected account against the fresh
// snapshot of the selected wallet: keep it when it still exists, fall back
// to the first account when it vanished or nothing was selected. The
// pending account marker suppresses the fallback so rule 3 can land on the
// address it is waiting for.
func syncSelection(state State) State {
	wallet := state.SelectedWallet()
	if wallet == nil {
		state.SelectedAccount = nil
		return state
	}

	if state.SelectedAccount != nil {
		if findAccount(wallet.Accounts, state.SelectedAccount.Address) != nil {
			return state
		}
		state.SelectedAccount = nil
	}

	if state.PendingAccount != "" {
		return state
	}
	if len(wallet.Accounts) > 0 {
		return selectAccount(state, wallet.Accounts[0].Address)
	}
	return state
}

func applyBalance(state State, address string, balance *big.Int) State {
	key := NormalizeAddress(address)
	if state.SelectedAccount != nil && state.SelectedAccount.Address == key {
		selected := *state.SelectedAccount
		selected.Balance = balance
		state.SelectedAccount = &selected
	}
	return state
}

func normalizeWallets(snapshot []Wallet) []Wallet {
	wallets := make([]Wallet, len(snapshot))
	for i, wallet := range snapshot {
		accounts := make([]Account, len(wallet.Accounts))
		for j, account := range wallet.Accounts {
			accounts[j] = Account{
				Address: NormalizeAddress(account.Address),
				Balance: account.Balance,
			}
		}
		wallets[i] = Wallet{
			WalletID:   wallet.WalletID,
			WalletName: wallet.WalletName,
			Accounts:   accounts,
		}
	}
	return wallets
}

func findWallet(wallets []Wallet, walletID string) *Wallet {
	if walletID == "" {
		return nil
	}
	for i := range wallets {
		if wallets[i].WalletID == walletID {
			return &wallets[i]
		}
	}
	return nil
}

func findAccount(accounts []Account, address string) *Account {
	for i := range accounts {
		if accounts[i].Address == address {
			return &accounts[i]
		}
	}
	return nil
}
