package ewallet

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidEmail       = "wallet_auth_invalid_email"
	TextCodeEnclaveNotReady    = "wallet_auth_enclave_not_ready"
	TextCodeSubOrgLookupFail   = "wallet_auth_suborg_lookup_failed"
	TextCodeSubOrgCreateFail   = "wallet_auth_suborg_create_failed"
	TextCodeLoginFailed        = "wallet_auth_login_failed"
	TextCodeBundleRejected     = "wallet_auth_bundle_rejected"
	TextCodeNoPublicKey        = "wallet_auth_no_public_key"
	TextCodeSessionNotFound    = "wallet_auth_session_not_found"
	TextCodeSessionExpired     = "wallet_auth_session_expired"
	TextCodeInvalidOIDCToken   = "wallet_auth_invalid_oidc_token"
	TextCodeCeremonyIncomplete = "wallet_auth_ceremony_incomplete"
)

// ErrInvalidEmail is returned when a login intent carries a malformed email.
var ErrInvalidEmail = errors.New("invalid email address", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidEmail).
	WithCode(errors.CodeBadRequest)

// ErrEnclaveNotReady is returned when a flow needs the secure execution
// context before it has published a public key. Completion handlers treat
// this as a silent no-op; direct login intents surface it.
var ErrEnclaveNotReady = errors.New("secure execution context not ready", errors.CategoryConflict).
	WithTextCode(TextCodeEnclaveNotReady).
	WithCode(errors.CodeConflict)

// ErrLoginFailed is returned when a credential client login comes back
// empty or errored.
var ErrLoginFailed = errors.New("login failed", errors.CategoryAuth).
	WithTextCode(TextCodeLoginFailed).
	WithCode(errors.CodeUnauthorized)

// ErrBundleRejected is returned when the enclave refuses a credential bundle.
var ErrBundleRejected = errors.New("credential bundle rejected", errors.CategoryAuth).
	WithTextCode(TextCodeBundleRejected).
	WithCode(errors.CodeUnauthorized)

// ErrNoPublicKey is returned when the external wallet yields no public key.
var ErrNoPublicKey = errors.New("no public key found", errors.CategoryAuth).
	WithTextCode(TextCodeNoPublicKey).
	WithCode(errors.CodeUnauthorized)

// ErrSessionNotFound is returned when no session record is persisted.
var ErrSessionNotFound = errors.New("session not found", errors.CategoryNotFound).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeNotFound)

// ErrSessionExpired is returned when a read-write operation is attempted
// against an expired bearer token.
var ErrSessionExpired = errors.New("session expired", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidOIDCToken is returned when a provider ID token cannot be parsed.
var ErrInvalidOIDCToken = errors.New("invalid oidc token", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidOIDCToken).
	WithCode(errors.CodeBadRequest)

// ErrCeremonyIncomplete is returned when a passkey ceremony returns no
// attestation material.
var ErrCeremonyIncomplete = errors.New("passkey ceremony incomplete", errors.CategoryAuth).
	WithTextCode(TextCodeCeremonyIncomplete).
	WithCode(errors.CodeUnauthorized)
