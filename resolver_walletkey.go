package ewallet

import (
	"context"

	"github.com/goliatone/go-errors"
)

// WalletTypeEthereum is the wallet type recorded on sub-organizations
// created from an externally-held ethereum key.
const WalletTypeEthereum = "ethereum"

// WalletKeyResolver resolves an external wallet's public key to a
// sub-organization, creating a wallet-type one when the key is unknown.
type WalletKeyResolver struct {
	identity IdentityService
	wallet   WalletKeyClient
	logger   Logger
}

func NewWalletKeyResolver(identity IdentityService, wallet WalletKeyClient) *WalletKeyResolver {
	return &WalletKeyResolver{
		identity: identity,
		wallet:   wallet,
		logger:   defLogger{},
	}
}

func (r *WalletKeyResolver) WithLogger(logger Logger) *WalletKeyResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *WalletKeyResolver) Resolve(ctx context.Context) (Resolution, error) {
	publicKey, err := r.wallet.PublicKey(ctx)
	if err != nil {
		r.logger.Error("wallet public key error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "could not obtain wallet public key").
			WithTextCode(TextCodeNoPublicKey)
	}
	if publicKey == "" {
		return Resolution{}, ErrNoPublicKey
	}

	subOrgID, err := r.identity.LookupSubOrg(ctx, SubOrgLookup{PublicKey: publicKey})
	if err != nil {
		r.logger.Error("wallet resolver lookup error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization lookup failed").
			WithTextCode(TextCodeSubOrgLookupFail)
	}

	if subOrgID != "" {
		return Resolution{SubOrgID: subOrgID}, nil
	}

	created, err := r.identity.CreateSubOrg(ctx, CreateSubOrgRequest{
		Wallet: &WalletKeyProof{
			PublicKey: publicKey,
			Type:      WalletTypeEthereum,
		},
	})
	if err != nil {
		r.logger.Error("wallet sub-organization creation error: %v", err)
		return Resolution{}, errors.Wrap(err, errors.CategoryAuth, "sub-organization creation failed").
			WithTextCode(TextCodeSubOrgCreateFail)
	}

	return Resolution{
		SubOrgID: created.SubOrganizationID,
		Created:  true,
		User:     created,
	}, nil
}
