package ewallet

import (
	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// OIDCClaims are the identity-bearing fields of a provider ID token.
type OIDCClaims struct {
	Subject string
	Issuer  string
	Email   string
	Name    string
}

// OIDCInspector extracts claims from a provider ID token. Cryptographic
// verification happens server-side during the credential-bundle exchange;
// the default inspector parses without verifying so the orchestrator can
// derive a display identity. Wrap with NewJWKSInspector when local
// verification against the provider's JWKS is wanted as well.
type OIDCInspector interface {
	Inspect(token string) (*OIDCClaims, error)
}

// OIDCInspectorFunc adapts a function into an OIDCInspector.
type OIDCInspectorFunc func(token string) (*OIDCClaims, error)

func (f OIDCInspectorFunc) Inspect(token string) (*OIDCClaims, error) {
	if f == nil {
		return nil, ErrInvalidOIDCToken
	}
	return f(token)
}

type unverifiedInspector struct {
	parser *jwt.Parser
}

// NewOIDCInspector returns the default unverified claim extractor.
func NewOIDCInspector() OIDCInspector {
	return &unverifiedInspector{parser: jwt.NewParser()}
}

func (i *unverifiedInspector) Inspect(token string) (*OIDCClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "could not parse oidc token").
			WithTextCode(TextCodeInvalidOIDCToken)
	}
	return claimsFromMap(claims), nil
}

type jwksInspector struct {
	jwks *keyfunc.JWKS
}

// NewJWKSInspector verifies ID tokens against the provider's JWKS endpoint
// before extracting claims.
func NewJWKSInspector(jwksURL string, opts keyfunc.Options) (OIDCInspector, error) {
	jwks, err := keyfunc.Get(jwksURL, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not load jwks")
	}
	return &jwksInspector{jwks: jwks}, nil
}

func (i *jwksInspector) Inspect(token string) (*OIDCClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, i.jwks.Keyfunc)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "oidc token verification failed").
			WithTextCode(TextCodeInvalidOIDCToken)
	}
	if !parsed.Valid {
		return nil, ErrInvalidOIDCToken
	}
	return claimsFromMap(claims), nil
}

func claimsFromMap(claims jwt.MapClaims) *OIDCClaims {
	out := &OIDCClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		out.Issuer = iss
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	return out
}
