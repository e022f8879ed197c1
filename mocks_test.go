package ewallet_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	ewallet "github.com/goliatone/go-embedded-wallet"
)

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) LookupSubOrg(ctx context.Context, query ewallet.SubOrgLookup) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockIdentity) CreateSubOrg(ctx context.Context, req ewallet.CreateSubOrgRequest) (*ewallet.CreateSubOrgResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*ewallet.CreateSubOrgResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeEnclave struct {
	mu          sync.Mutex
	publicKey   string
	injectOK    bool
	injectErr   error
	injectCalls int
	loginResult *ewallet.LoginResult
	loginErr    error
	loginCalls  int
}

func (f *fakeEnclave) PublicKey() string { return f.publicKey }

func (f *fakeEnclave) InjectCredentialBundle(ctx context.Context, bundle string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injectCalls++
	return f.injectOK, f.injectErr
}

func (f *fakeEnclave) LoginWithReadWriteSession(ctx context.Context, publicKey string, ttlSeconds int64) (*ewallet.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResult, f.loginErr
}

type fakePasskeys struct {
	loginResult *ewallet.LoginResult
	loginErr    error
	proof       *ewallet.PasskeyProof
	createErr   error
	createCalls int
}

func (f *fakePasskeys) Login(ctx context.Context, organizationID string) (*ewallet.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakePasskeys) CreatePasskey(ctx context.Context, email string) (*ewallet.PasskeyProof, error) {
	f.createCalls++
	return f.proof, f.createErr
}

type fakeWalletKey struct {
	publicKey   string
	publicErr   error
	loginResult *ewallet.LoginResult
	loginErr    error
}

func (f *fakeWalletKey) PublicKey(ctx context.Context) (string, error) {
	return f.publicKey, f.publicErr
}

func (f *fakeWalletKey) Login(ctx context.Context, organizationID string) (*ewallet.LoginResult, error) {
	return f.loginResult, f.loginErr
}

type fakeOTP struct {
	err    error
	emails []string
	keys   []string
}

func (f *fakeOTP) InitOTP(ctx context.Context, email, targetPublicKey string) error {
	f.emails = append(f.emails, email)
	f.keys = append(f.keys, targetPublicKey)
	return f.err
}

type fakeExchanger struct {
	bundle string
	err    error
	calls  int
}

func (f *fakeExchanger) Exchange(ctx context.Context, credential, targetPublicKey, subOrgID string) (string, error) {
	f.calls++
	return f.bundle, f.err
}

type recorderNav struct {
	mu     sync.Mutex
	routes []string
}

func (r *recorderNav) Navigate(route string) {
	r.mu.Lock()
	r.routes = append(r.routes, route)
	r.mu.Unlock()
}

func (r *recorderNav) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}

type memSessionRepo struct {
	mu      sync.Mutex
	session *ewallet.Session
	saveErr error
}

func (m *memSessionRepo) Load(ctx context.Context) (*ewallet.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ewallet.ErrSessionNotFound
	}
	return m.session, nil
}

func (m *memSessionRepo) Save(ctx context.Context, session *ewallet.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.session = session
	return nil
}

func (m *memSessionRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(format string, args ...any) {}
func (silentLogger) Info(format string, args ...any)  {}
func (silentLogger) Warn(format string, args ...any)  {}
func (silentLogger) Error(format string, args ...any) {}

type staticConfig struct {
	ttl  time.Duration
	lead time.Duration
}

func (c staticConfig) GetOrganizationID() string { return "org-root" }

func (c staticConfig) GetSessionTTL() time.Duration {
	if c.ttl <= 0 {
		return ewallet.DefaultSessionTTL
	}
	return c.ttl
}

func (c staticConfig) GetWarningLead() time.Duration {
	if c.lead <= 0 {
		return ewallet.DefaultWarningLead
	}
	return c.lead
}

func (c staticConfig) GetChainRPCURL() string      { return "" }
func (c staticConfig) GetGoogleClientID() string   { return "" }
func (c staticConfig) GetAppleClientID() string    { return "" }
func (c staticConfig) GetFacebookClientID() string { return "" }
