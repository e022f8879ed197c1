package ewallet

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// PasskeyResolver resolves an email to a sub-organization, running the
// WebAuthn attestation ceremony when the email is unknown so the new
// sub-organization is bound to the freshly created passkey.
type PasskeyResolver struct {
	identity IdentityService
	passkeys PasskeyClient
	logger   Logger
}

func NewPasskeyResolver(identity IdentityService, passkeys PasskeyClient) *PasskeyResolver {
	return &PasskeyResolver{
		identity: identity,
		passkeys: passkeys,
		logger:   defLogger{},
	}
}

func (r *PasskeyResolver) WithLogger(logger Logger) *PasskeyResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *PasskeyResolver) Resolve(ctx context.Context, email string) (Resolution, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return Resolution{}, ErrInvalidEmail.WithMetadata(map[string]any{
			"email": email,
		})
	}

	subOrgID, err := r.identity.LookupSubOrg(ctx, SubOrgLookup{Email: email})
	if err != nil {
		r.logger.Error("passkey resolver lookup error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization lookup failed").
			WithTextCode(TextCodeSubOrgLookupFail)
	}

	if subOrgID != "" {
		return Resolution{SubOrgID: subOrgID}, nil
	}

	// No sub-organization for this email: run the attestation ceremony and
	// create one bound to the new passkey.
	proof, err := r.passkeys.CreatePasskey(ctx, email)
	if err != nil {
		r.logger.Error("passkey creation ceremony error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "passkey creation failed").
			WithTextCode(TextCodeCeremonyIncomplete)
	}
	if proof == nil || proof.Attestation == nil || proof.Challenge == "" {
		return Resolution{}, ErrCeremonyIncomplete
	}

	created, err := r.identity.CreateSubOrg(ctx, CreateSubOrgRequest{
		Email:   email,
		Passkey: proof,
	})
	if err != nil {
		r.logger.Error("passkey sub-organization creation error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization creation failed").
			WithTextCode(TextCodeSubOrgCreateFail)
	}

	return Resolution{
		SubOrgID: created.SubOrganizationID,
		Created:  true,
		User:     created,
	}, nil
}
