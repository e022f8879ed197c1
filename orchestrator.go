package ewallet

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Provider-tagged sub-organization names recorded on OAuth signups.
const (
	ProviderNameGoogle   = "Google Auth - Embedded Wallet"
	ProviderNameApple    = "Apple Auth - Embedded Wallet"
	ProviderNameFacebook = "Facebook Auth - Embedded Wallet"
)

// CompleteEmailAuthParams is the out-of-band confirmation payload carried
// by the OTP redirect.
type CompleteEmailAuthParams struct {
	UserEmail        string
	ContinueWith     string
	CredentialBundle string
}

// Orchestrator coordinates credential resolvers, the session store, the
// expiry scheduler, and navigation. It is the single source of truth for
// loading/error/user/sessionExpiring; all resolver failures are converted
// into the Error state field and never escape to callers as panics.
type Orchestrator struct {
	mu    sync.Mutex
	state State
	subs  []func(State)

	store     *SessionStore
	scheduler *ExpiryScheduler
	identity  IdentityService
	enclave   Enclave
	passkeys  *PasskeyResolver
	email     *EmailResolver
	oauth     *OAuthResolver
	walletKey *WalletKeyResolver

	passkeyClient PasskeyClient
	walletClient  WalletKeyClient
	exchanger     OAuthExchanger
	nav           Navigator
	signOut       ProviderSignOut
	logger        Logger
	now           func() time.Time

	sessionTTL time.Duration

	// One-shot guards for out-of-band completion handlers; reset on logout.
	completedEmail bool
	completedOAuth map[string]struct{}

	// epoch invalidates in-flight logins superseded by logout. There is no
	// cancellation token; results are dropped instead of interrupted.
	epoch uint64
}

type Deps struct {
	Identity  IdentityService
	Enclave   Enclave
	Passkeys  PasskeyClient
	WalletKey WalletKeyClient
	OTP       OTPDispatcher
	Exchanger OAuthExchanger
	Navigator Navigator
}

func NewOrchestrator(store *SessionStore, deps Deps, cfg Config) *Orchestrator {
	logger := Logger(defLogger{})

	o := &Orchestrator{
		store:          store,
		identity:       deps.Identity,
		enclave:        deps.Enclave,
		passkeyClient:  deps.Passkeys,
		walletClient:   deps.WalletKey,
		exchanger:      deps.Exchanger,
		nav:            deps.Navigator,
		logger:         logger,
		now:            time.Now,
		sessionTTL:     cfg.GetSessionTTL(),
		completedOAuth: map[string]struct{}{},
	}

	o.passkeys = NewPasskeyResolver(deps.Identity, deps.Passkeys)
	o.email = NewEmailResolver(deps.OTP, deps.Enclave)
	o.oauth = NewOAuthResolver(deps.Identity)
	o.walletKey = NewWalletKeyResolver(deps.Identity, deps.WalletKey)

	o.scheduler = NewExpiryScheduler(cfg.GetWarningLead(), func(expiring bool) {
		o.dispatch(Event{Type: EventSessionExpiring, Expiring: expiring})
	})

	return o
}

func (o *Orchestrator) WithLogger(logger Logger) *Orchestrator {
	if logger != nil {
		o.logger = logger
		o.passkeys.WithLogger(logger)
		o.email.WithLogger(logger)
		o.oauth.WithLogger(logger)
		o.walletKey.WithLogger(logger)
	}
	return o
}

// WithProviderSignOut registers a hook run on logout to revoke
// provider-side state (e.g. the Google session).
func (o *Orchestrator) WithProviderSignOut(hook ProviderSignOut) *Orchestrator {
	o.signOut = hook
	return o
}

// WithOIDCInspector swaps the OAuth claim extractor, e.g. for a
// JWKS-verifying one.
func (o *Orchestrator) WithOIDCInspector(inspector OIDCInspector) *Orchestrator {
	o.oauth.WithInspector(inspector)
	return o
}

func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	if clock != nil {
		o.now = clock
	}
	return o
}

// State returns a snapshot of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers an observer invoked after every transition with the
// new state snapshot.
func (o *Orchestrator) Subscribe(fn func(State)) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.subs = append(o.subs, fn)
	o.mu.Unlock()
}

// Scheduler exposes the expiry scheduler for countdown consumers.
func (o *Orchestrator) Scheduler() *ExpiryScheduler {
	return o.scheduler
}

// Restore loads a persisted session at startup, rearming the expiry
// scheduler for read-write sessions that are still alive.
func (o *Orchestrator) Restore(ctx context.Context) error {
	session, err := o.store.Restore(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if session.ReadSession != nil && !session.CanReadWrite(o.now()) {
		// Hard-expired bearer token: drop the stale record entirely.
		return o.store.Clear(ctx)
	}

	if session.ReadSession != nil {
		o.scheduler.Arm(session.Expiry())
	}
	o.dispatch(Event{Type: EventAuthenticated, Session: session})
	return nil
}

// InitEmailLogin starts the email OTP flow. No user is set; the machine
// enters the interstitial awaiting-confirmation state and navigation moves
// to the email-auth view.
func (o *Orchestrator) InitEmailLogin(ctx context.Context, email string) {
	o.dispatch(Event{Type: EventLoading, Loading: true})
	defer o.dispatch(Event{Type: EventLoading, Loading: false})

	if err := o.email.Init(ctx, email); err != nil {
		o.fail(err)
		return
	}

	o.dispatch(Event{Type: EventInitEmailAuth})
	o.nav.Navigate(RouteEmailAuth + "?userEmail=" + url.QueryEscape(email))
}

// CompleteEmailAuth finalizes the email flow from the out-of-band
// confirmation payload. Missing context (wrong continueWith, empty bundle,
// enclave not ready) and repeated invocations are silent no-ops.
func (o *Orchestrator) CompleteEmailAuth(ctx context.Context, params CompleteEmailAuthParams) {
	if params.UserEmail == "" || params.ContinueWith != "email" || params.CredentialBundle == "" {
		return
	}

	o.mu.Lock()
	if o.completedEmail {
		o.mu.Unlock()
		return
	}
	publicKey := o.enclave.PublicKey()
	if publicKey == "" {
		o.mu.Unlock()
		return
	}
	o.completedEmail = true
	epoch := o.epoch
	o.mu.Unlock()

	o.dispatch(Event{Type: EventLoading, Loading: true})
	defer o.dispatch(Event{Type: EventLoading, Loading: false})

	ok, err := o.enclave.InjectCredentialBundle(ctx, params.CredentialBundle)
	if err != nil || !ok {
		o.reopenEmail()
		o.fail(ErrBundleRejected)
		return
	}

	result, err := o.enclave.LoginWithReadWriteSession(ctx, publicKey, o.ttlSeconds())
	if err != nil || result == nil || result.OrganizationID == "" {
		o.reopenEmail()
		o.fail(ErrLoginFailed)
		return
	}
	if result.Username == "" {
		result.Username = params.UserEmail
	}

	o.finishLogin(ctx, epoch, result, AuthMethodEmail)
}

// LoginWithPasskey authenticates via WebAuthn. Known emails run the
// assertion ceremony; unknown emails run attestation, create a
// sub-organization, and yield a locally-stored cold session.
func (o *Orchestrator) LoginWithPasskey(ctx context.Context, email string) {
	o.dispatch(Event{Type: EventLoading, Loading: true})
	defer o.dispatch(Event{Type: EventLoading, Loading: false})

	epoch := o.currentEpoch()

	res, err := o.passkeys.Resolve(ctx, email)
	if err != nil {
		o.fail(err)
		return
	}

	if !res.Created {
		result, err := o.passkeyClient.Login(ctx, res.SubOrgID)
		if err != nil || result == nil || result.OrganizationID == "" {
			o.fail(ErrLoginFailed)
			return
		}
		o.finishLogin(ctx, epoch, result, AuthMethodPasskey)
		return
	}

	o.finishColdLogin(ctx, epoch, coldSession(res, email, AuthMethodPasskey))
}

// LoginWithWallet authenticates via an externally-held wallet key.
func (o *Orchestrator) LoginWithWallet(ctx context.Context) {
	o.dispatch(Event{Type: EventLoading, Loading: true})
	defer o.dispatch(Event{Type: EventLoading, Loading: false})

	epoch := o.currentEpoch()

	res, err := o.walletKey.Resolve(ctx)
	if err != nil {
		o.fail(err)
		return
	}

	if !res.Created {
		result, err := o.walletClient.Login(ctx, res.SubOrgID)
		if err != nil || result == nil || result.OrganizationID == "" {
			o.fail(ErrLoginFailed)
			return
		}
		o.finishLogin(ctx, epoch, result, AuthMethodWallet)
		return
	}

	o.finishColdLogin(ctx, epoch, coldSession(res, "", AuthMethodWallet))
}

// LoginWithOAuth finalizes an OAuth login from a provider ID token.
// Repeated invocations with the same credential (e.g. a re-firing redirect
// effect) are no-ops, as is invocation before the enclave is ready.
func (o *Orchestrator) LoginWithOAuth(ctx context.Context, credential, providerName string) {
	if credential == "" {
		return
	}

	o.mu.Lock()
	if _, done := o.completedOAuth[credential]; done {
		o.mu.Unlock()
		return
	}
	publicKey := o.enclave.PublicKey()
	if publicKey == "" {
		o.mu.Unlock()
		return
	}
	o.completedOAuth[credential] = struct{}{}
	epoch := o.epoch
	o.mu.Unlock()

	o.dispatch(Event{Type: EventLoading, Loading: true})
	defer o.dispatch(Event{Type: EventLoading, Loading: false})

	res, err := o.oauth.Resolve(ctx, credential, providerName)
	if err != nil {
		o.reopenOAuth(credential)
		o.fail(err)
		return
	}

	bundle, err := o.exchanger.Exchange(ctx, credential, publicKey, res.SubOrgID)
	if err != nil {
		o.reopenOAuth(credential)
		o.fail(ErrLoginFailed)
		return
	}

	ok, err := o.enclave.InjectCredentialBundle(ctx, bundle)
	if err != nil || !ok {
		o.reopenOAuth(credential)
		o.fail(ErrBundleRejected)
		return
	}

	result, err := o.enclave.LoginWithReadWriteSession(ctx, publicKey, o.ttlSeconds())
	if err != nil || result == nil || result.OrganizationID == "" {
		o.reopenOAuth(credential)
		o.fail(ErrLoginFailed)
		return
	}

	o.finishLogin(ctx, epoch, result, AuthMethodOAuth)
}

func (o *Orchestrator) LoginWithGoogle(ctx context.Context, credential string) {
	o.LoginWithOAuth(ctx, credential, ProviderNameGoogle)
}

func (o *Orchestrator) LoginWithApple(ctx context.Context, credential string) {
	o.LoginWithOAuth(ctx, credential, ProviderNameApple)
}

func (o *Orchestrator) LoginWithFacebook(ctx context.Context, credential string) {
	o.LoginWithOAuth(ctx, credential, ProviderNameFacebook)
}

// Logout cancels armed timers, clears the persisted session, revokes
// provider state, and navigates to the unauthenticated entry point.
func (o *Orchestrator) Logout(ctx context.Context) {
	o.scheduler.Cancel()

	if err := o.store.Clear(ctx); err != nil {
		o.logger.Warn("logout session clear error: %v", err)
	}

	if o.signOut != nil {
		o.signOut(ctx)
	}

	o.mu.Lock()
	o.epoch++
	o.completedEmail = false
	o.completedOAuth = map[string]struct{}{}
	o.mu.Unlock()

	o.dispatch(Event{Type: EventLogout})
	o.nav.Navigate(RouteRoot)
}

// finishLogin writes the session, arms the scheduler, then navigates.
// Ordering matters: navigation to authenticated views must never precede
// the session write and scheduler arm.
func (o *Orchestrator) finishLogin(ctx context.Context, epoch uint64, result *LoginResult, method AuthMethod) {
	if o.stale(epoch) {
		o.logger.Debug("dropping stale login result for org %s", result.OrganizationID)
		return
	}

	session := SessionFromLogin(result, method)
	if err := o.store.Set(ctx, session); err != nil {
		o.fail(err)
		return
	}

	if session.ReadSession != nil {
		o.scheduler.Arm(session.Expiry())
	}

	o.dispatch(Event{Type: EventAuthenticated, Session: session})
	o.nav.Navigate(RouteDashboard)
}

func (o *Orchestrator) finishColdLogin(ctx context.Context, epoch uint64, session *Session) {
	if o.stale(epoch) {
		return
	}

	if err := o.store.Set(ctx, session); err != nil {
		o.fail(err)
		return
	}

	o.dispatch(Event{Type: EventAuthenticated, Session: session})
	o.nav.Navigate(RouteDashboard)
}

// fail records the failure message; the user field is left untouched so a
// failed re-login never clobbers an existing session.
func (o *Orchestrator) fail(err error) {
	o.logger.Error("auth failure: %v", err)
	o.dispatch(Event{Type: EventError, Error: err.Error()})
}

func (o *Orchestrator) dispatch(event Event) {
	o.mu.Lock()
	o.state = Reduce(o.state, event)
	state := o.state
	subs := make([]func(State), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (o *Orchestrator) currentEpoch() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.epoch
}

func (o *Orchestrator) stale(epoch uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.epoch != epoch
}

// reopenEmail/reopenOAuth release the one-shot guard when a completion
// fails before producing a session, so the user can retry.
func (o *Orchestrator) reopenEmail() {
	o.mu.Lock()
	o.completedEmail = false
	o.mu.Unlock()
}

func (o *Orchestrator) reopenOAuth(credential string) {
	o.mu.Lock()
	delete(o.completedOAuth, credential)
	o.mu.Unlock()
}

func (o *Orchestrator) ttlSeconds() int64 {
	ttl := o.sessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return int64(ttl / time.Second)
}
