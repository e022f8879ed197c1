// Package ewallet orchestrates embedded-wallet sessions on the client side.
// It unifies four credential acquisition flows (passkey, email one-time
// passcode, third-party OAuth, externally-held wallet key) into one
// canonical session record and manages that record's lifecycle.
//
// Credential resolution:
//   - Each login method has a Resolver that turns a raw identity proof into
//     a sub-organization id, creating a fresh sub-organization when lookup
//     yields nothing. Lookup always precedes creation so the same proof can
//     never mint duplicate sub-organizations.
//   - Flows that complete inside the secure execution context (email OTP,
//     OAuth) produce a time-bounded read-write session. Flows that finish
//     with a creation response only (fresh passkey or wallet signups) yield
//     a cold session: identity established, no bearer token.
//
// State machine:
//   - Reduce is a pure transition function over loading/error/user/
//     sessionExpiring so the session lifecycle is testable without I/O.
//     Orchestrator is the effect layer: it invokes resolvers, writes the
//     SessionStore, arms the ExpiryScheduler, and only then navigates.
//
// Expiry:
//   - ExpiryScheduler raises a warning ahead of the expiry instant and
//     clears it at expiry. Rearming always cancels prior timers; remaining
//     time is recomputed from the absolute deadline so throttled timers
//     cannot drift the countdown.
//
// The wallets subpackage reconciles wallet/account snapshots against user
// selection and caches balance lookups; the chain and repository
// subpackages supply the RPC and persistence collaborators.
package ewallet
