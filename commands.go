package ewallet

import (
	"context"

	"github.com/goliatone/go-errors"
)

// CompleteEmailAuthMessage is the redirect payload carried by the OTP
// confirmation link, dispatched as a message so transports (router
// callbacks, deep links) stay decoupled from the orchestrator.
type CompleteEmailAuthMessage struct {
	UserEmail        string `json:"userEmail"`
	ContinueWith     string `json:"continueWith"`
	CredentialBundle string `json:"credentialBundle"`
}

func (e CompleteEmailAuthMessage) Type() string { return "auth.complete_email" }

type CompleteEmailAuthHandler struct {
	orchestrator *Orchestrator
}

func NewCompleteEmailAuthHandler(orchestrator *Orchestrator) *CompleteEmailAuthHandler {
	return &CompleteEmailAuthHandler{orchestrator: orchestrator}
}

func (h *CompleteEmailAuthHandler) Execute(ctx context.Context, event CompleteEmailAuthMessage) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(
			ctx.Err(),
			errors.CategoryOperation,
			"context cancelled during email auth completion",
		)
	default:
	}

	h.orchestrator.CompleteEmailAuth(ctx, CompleteEmailAuthParams{
		UserEmail:        event.UserEmail,
		ContinueWith:     event.ContinueWith,
		CredentialBundle: event.CredentialBundle,
	})
	return nil
}

// CompleteOAuthMessage carries a provider redirect's ID token.
type CompleteOAuthMessage struct {
	Credential   string `json:"credential"`
	ProviderName string `json:"providerName"`
}

func (e CompleteOAuthMessage) Type() string { return "auth.complete_oauth" }

type CompleteOAuthHandler struct {
	orchestrator *Orchestrator
}

func NewCompleteOAuthHandler(orchestrator *Orchestrator) *CompleteOAuthHandler {
	return &CompleteOAuthHandler{orchestrator: orchestrator}
}

func (h *CompleteOAuthHandler) Execute(ctx context.Context, event CompleteOAuthMessage) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(
			ctx.Err(),
			errors.CategoryOperation,
			"context cancelled during oauth completion",
		)
	default:
	}

	h.orchestrator.LoginWithOAuth(ctx, event.Credential, event.ProviderName)
	return nil
}
