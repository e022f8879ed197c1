package ewallet

import (
	"context"

	"github.com/goliatone/go-errors"
)

// OAuthResolver resolves a provider-issued OIDC ID token to a
// sub-organization, creating one tagged with the provider name when the
// token is unknown.
type OAuthResolver struct {
	identity  IdentityService
	inspector OIDCInspector
	logger    Logger
}

func NewOAuthResolver(identity IdentityService) *OAuthResolver {
	return &OAuthResolver{
		identity:  identity,
		inspector: NewOIDCInspector(),
		logger:    defLogger{},
	}
}

func (r *OAuthResolver) WithLogger(logger Logger) *OAuthResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithInspector swaps the claim extractor, e.g. for a JWKS-verifying one.
func (r *OAuthResolver) WithInspector(inspector OIDCInspector) *OAuthResolver {
	if inspector != nil {
		r.inspector = inspector
	}
	return r
}

func (r *OAuthResolver) Resolve(ctx context.Context, credential, providerName string) (Resolution, error) {
	claims, err := r.inspector.Inspect(credential)
	if err != nil {
		r.logger.Error("oauth token inspection error: %v", err)
		return Resolution{}, err
	}

	subOrgID, err := r.identity.LookupSubOrg(ctx, SubOrgLookup{OIDCToken: credential})
	if err != nil {
		r.logger.Error("oauth resolver lookup error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization lookup failed").
			WithTextCode(TextCodeSubOrgLookupFail)
	}

	if subOrgID != "" {
		return Resolution{SubOrgID: subOrgID}, nil
	}

	created, err := r.identity.CreateSubOrg(ctx, CreateSubOrgRequest{
		Email: claims.Email,
		OAuth: &OAuthProof{
			OIDCToken:    credential,
			ProviderName: providerName,
		},
	})
	if err != nil {
		r.logger.Error("oauth sub-organization creation error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization creation failed").
			WithTextCode(TextCodeSubOrgCreateFail)
	}

	return Resolution{
		SubOrgID: created.SubOrganizationID,
		Created:  true,
		User:     created,
	}, nil
}
