// Package wallets reconciles externally supplied wallet/account snapshots
// against local user selection.
//
// Reconciliation:
//   - Reduce is a pure transition function; the Controller is the effect
//     layer that lists wallets, issues creation calls, persists the
//     preferred wallet, and populates balances.
//   - Creation is a two-step process: the creation API returns only an
//     identifier, so the id/address is recorded as a single-slot pending
//     marker and resolved by the next snapshot that contains it. Each
//     marker is cleared exactly once, on first match.
//   - A background refresh alone never reassigns an explicit selection;
//     only pending-creation resolution may move it.
//
// Balances are looked up through BalanceCache, which shares one upstream
// call between concurrent lookups of the same address and never caches
// failures, so a later lookup can retry.
package wallets
