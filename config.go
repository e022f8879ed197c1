package ewallet

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// Config holds orchestrator options.
type Config interface {
	GetOrganizationID() string
	GetSessionTTL() time.Duration
	GetWarningLead() time.Duration
	GetChainRPCURL() string
	GetGoogleClientID() string
	GetAppleClientID() string
	GetFacebookClientID() string
}

// EnvConfig loads configuration from the environment.
type EnvConfig struct {
	OrganizationID   string        `env:"EWALLET_ORGANIZATION_ID"`
	SessionTTL       time.Duration `env:"EWALLET_SESSION_TTL" envDefault:"900s"`
	WarningLead      time.Duration `env:"EWALLET_WARNING_LEAD" envDefault:"15s"`
	ChainRPCURL      string        `env:"EWALLET_CHAIN_RPC_URL"`
	GoogleClientID   string        `env:"EWALLET_GOOGLE_CLIENT_ID"`
	AppleClientID    string        `env:"EWALLET_APPLE_CLIENT_ID"`
	FacebookClientID string        `env:"EWALLET_FACEBOOK_CLIENT_ID"`
}

// NewEnvConfig parses and validates configuration from the environment.
func NewEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "could not parse environment config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EnvConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.OrganizationID, validation.Required),
		validation.Field(&c.ChainRPCURL, is.URL),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid configuration")
	}
	if c.WarningLead >= c.SessionTTL {
		return errors.New("warning lead must be shorter than session ttl", errors.CategoryValidation)
	}
	return nil
}

func (c *EnvConfig) GetOrganizationID() string { return c.OrganizationID }

func (c *EnvConfig) GetSessionTTL() time.Duration {
	if c.SessionTTL <= 0 {
		return DefaultSessionTTL
	}
	return c.SessionTTL
}

func (c *EnvConfig) GetWarningLead() time.Duration {
	if c.WarningLead <= 0 {
		return DefaultWarningLead
	}
	return c.WarningLead
}

func (c *EnvConfig) GetChainRPCURL() string      { return c.ChainRPCURL }
func (c *EnvConfig) GetGoogleClientID() string   { return c.GoogleClientID }
func (c *EnvConfig) GetAppleClientID() string    { return c.AppleClientID }
func (c *EnvConfig) GetFacebookClientID() string { return c.FacebookClientID }
