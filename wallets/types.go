package wallets

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Account is a chain account inside a wallet. Address is always stored in
// checksummed form; Balance is lazily populated and nil means "not yet
// fetched", not zero.
type Account struct {
	Address string   `json:"address"`
	Balance *big.Int `json:"balance,omitempty"`
}

// Wallet is owned by the authenticated organization. The list is refreshed
// from the external source of truth and never locally invented.
type Wallet struct {
	WalletID   string    `json:"wallet_id"`
	WalletName string    `json:"wallet_name"`
	Accounts   []Account `json:"accounts"`
}

// Preferred is the advisory preferred-wallet record persisted per user. It
// only picks a default when nothing is explicitly selected.
type Preferred struct {
	UserID   string `json:"user_id"`
	WalletID string `json:"wallet_id"`
}

// WalletService is the upstream wallet source of truth. CreateWallet and
// CreateAccount return only identifiers; the full object shape arrives
// with the next ListWallets refresh.
type WalletService interface {
	ListWallets(ctx context.Context) ([]Wallet, error)
	CreateWallet(ctx context.Context, name string) (string, error)
	CreateAccount(ctx context.Context, walletID string) (string, error)
}

// BalanceReader reads an on-chain balance. The chain package provides an
// RPC-backed implementation.
type BalanceReader interface {
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// PreferenceStore persists the preferred wallet across sessions. Load
// returns the zero value when no record exists.
type PreferenceStore interface {
	Load(ctx context.Context, userID string) (Preferred, error)
	Save(ctx context.Context, pref Preferred) error
}

// NormalizeAddress returns the EIP-55 checksummed form of an address.
// Equality downstream is always on this form, never case-insensitive.
func NormalizeAddress(address string) string {
	return common.HexToAddress(address).Hex()
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] WALLETS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] WALLETS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] WALLETS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] WALLETS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
