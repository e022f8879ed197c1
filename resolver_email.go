package ewallet

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// EmailResolver initiates the email OTP flow. It does not complete
// authentication: the passcode confirmation arrives out-of-band with a
// credential bundle, which the orchestrator exchanges for a read-write
// session (see Orchestrator.CompleteEmailAuth).
type EmailResolver struct {
	otp     OTPDispatcher
	enclave Enclave
	logger  Logger
}

func NewEmailResolver(otp OTPDispatcher, enclave Enclave) *EmailResolver {
	return &EmailResolver{
		otp:     otp,
		enclave: enclave,
		logger:  defLogger{},
	}
}

func (r *EmailResolver) WithLogger(logger Logger) *EmailResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Init requests OTP delivery targeting the enclave's public key.
func (r *EmailResolver) Init(ctx context.Context, email string) error {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return ErrInvalidEmail.WithMetadata(map[string]any{
			"email": email,
		})
	}

	publicKey := r.enclave.PublicKey()
	if publicKey == "" {
		return ErrEnclaveNotReady
	}

	if err := r.otp.InitOTP(ctx, email, publicKey); err != nil {
		r.logger.Error("otp dispatch error: %v", err)
		return errors.Wrap(err, errors.CategoryAuth, "could not initiate email auth").
			WithTextCode(TextCodeLoginFailed)
	}

	return nil
}
