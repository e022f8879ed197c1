package ewallet

import (
	"context"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// SubOrgLookup is a sub-organization query. Exactly one field should be
// set; the identity backend resolves it to a sub-organization id or "".
type SubOrgLookup struct {
	Email     string
	PublicKey string
	OIDCToken string
}

// PasskeyProof carries the WebAuthn attestation produced by a passkey
// creation ceremony, used to bind a fresh sub-organization to the passkey.
type PasskeyProof struct {
	Challenge   string
	Attestation *protocol.CredentialCreationResponse
}

// WalletKeyProof identifies an externally-held wallet key.
type WalletKeyProof struct {
	PublicKey string
	Type      string
}

// OAuthProof carries a provider-issued OIDC ID token.
type OAuthProof struct {
	OIDCToken    string
	ProviderName string
}

// CreateSubOrgRequest binds an identity proof to a new sub-organization.
// Exactly one proof field should be set alongside an optional email.
type CreateSubOrgRequest struct {
	Email   string
	Passkey *PasskeyProof
	Wallet  *WalletKeyProof
	OAuth   *OAuthProof
}

type CreateSubOrgResponse struct {
	SubOrganizationID string
	UserID            string
	Username          string
}

// IdentityService is the identity backend boundary: sub-organization
// lookup and creation.
type IdentityService interface {
	LookupSubOrg(ctx context.Context, query SubOrgLookup) (string, error)
	CreateSubOrg(ctx context.Context, req CreateSubOrgRequest) (*CreateSubOrgResponse, error)
}

// LoginResult is the shape every completed login produces, regardless of
// which client performed it. Session and SessionExpiry are empty for cold
// logins that return no bearer token.
type LoginResult struct {
	OrganizationID   string
	OrganizationName string
	UserID           string
	Username         string
	Session          string
	SessionExpiry    int64
}

// Enclave is the secure execution context holding key material the main
// application never sees. PublicKey returns "" until the context has
// initialized; callers must treat that as "not ready yet".
type Enclave interface {
	PublicKey() string
	InjectCredentialBundle(ctx context.Context, bundle string) (bool, error)
	LoginWithReadWriteSession(ctx context.Context, publicKey string, ttlSeconds int64) (*LoginResult, error)
}

// PasskeyClient performs the browser-mediated WebAuthn ceremonies. Both
// calls suspend on user presence.
type PasskeyClient interface {
	Login(ctx context.Context, organizationID string) (*LoginResult, error)
	CreatePasskey(ctx context.Context, email string) (*PasskeyProof, error)
}

// WalletKeyClient talks to an externally-injected wallet (e.g. a browser
// extension) through a signing challenge.
type WalletKeyClient interface {
	PublicKey(ctx context.Context) (string, error)
	Login(ctx context.Context, organizationID string) (*LoginResult, error)
}

// OTPDispatcher requests an out-of-band one-time-passcode delivery. The
// confirmation arrives later as a CompleteEmailAuthMessage.
type OTPDispatcher interface {
	InitOTP(ctx context.Context, email, targetPublicKey string) error
}

// OAuthExchanger trades a provider ID token for a credential bundle
// decryptable only inside the enclave.
type OAuthExchanger interface {
	Exchange(ctx context.Context, credential, targetPublicKey, subOrgID string) (string, error)
}

// ProviderSignOut revokes provider-side state on logout (e.g. the Google
// session hook). Optional; a nil hook is a no-op.
type ProviderSignOut func(ctx context.Context)

// Navigator is the routing boundary. The orchestrator only ever navigates
// after the session write and scheduler arm have completed.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	if f != nil {
		f(route)
	}
}

const (
	RouteRoot      = "/"
	RouteDashboard = "/dashboard"
	RouteEmailAuth = "/email-auth"
)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] EWALLET "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] EWALLET "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] EWALLET "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] EWALLET "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
