package wallets

import "github.com/goliatone/go-errors"

const (
	TextCodeNoWalletSelected  = "wallets_no_wallet_selected"
	TextCodeCreateWalletFail  = "wallets_create_wallet_failed"
	TextCodeCreateAccountFail = "wallets_create_account_failed"
	TextCodeRefreshFail       = "wallets_refresh_failed"
	TextCodeBalanceFail       = "wallets_balance_failed"
	TextCodeUnknownWallet     = "wallets_unknown_wallet"
	TextCodeUnknownAccount    = "wallets_unknown_account"
)

// ErrNoWalletSelected is returned when an account-scoped operation runs
// with no wallet selected.
var ErrNoWalletSelected = errors.New("no wallet selected", errors.CategoryConflict).
	WithTextCode(TextCodeNoWalletSelected).
	WithCode(errors.CodeConflict)

// ErrCreateWalletFailed is returned when the wallet creation call fails.
var ErrCreateWalletFailed = errors.New("failed to create new wallet", errors.CategoryOperation).
	WithTextCode(TextCodeCreateWalletFail).
	WithCode(errors.CodeBadRequest)

// ErrCreateAccountFailed is returned when the account creation call fails.
var ErrCreateAccountFailed = errors.New("failed to create new wallet account", errors.CategoryOperation).
	WithTextCode(TextCodeCreateAccountFail).
	WithCode(errors.CodeBadRequest)

// ErrRefreshFailed is returned when the upstream wallet list cannot be read.
var ErrRefreshFailed = errors.New("failed to refresh wallets", errors.CategoryOperation).
	WithTextCode(TextCodeRefreshFail).
	WithCode(errors.CodeBadRequest)

// ErrBalanceFailed is returned when a balance lookup fails. The cache
// entry is evicted so re-selecting the account retries.
var ErrBalanceFailed = errors.New("failed to fetch balance", errors.CategoryOperation).
	WithTextCode(TextCodeBalanceFail).
	WithCode(errors.CodeBadRequest)

// ErrUnknownWallet is returned when selecting a wallet id absent from the
// current snapshot.
var ErrUnknownWallet = errors.New("unknown wallet", errors.CategoryNotFound).
	WithTextCode(TextCodeUnknownWallet).
	WithCode(errors.CodeNotFound)

// ErrUnknownAccount is returned when selecting an address absent from the
// selected wallet.
var ErrUnknownAccount = errors.New("unknown account", errors.CategoryNotFound).
	WithTextCode(TextCodeUnknownAccount).
	WithCode(errors.CodeNotFound)
