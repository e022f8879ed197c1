package ewallet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuthMethod tags the credential flow that produced a session. A session
// carries exactly one.
type AuthMethod string

const (
	AuthMethodPasskey AuthMethod = "passkey"
	AuthMethodEmail   AuthMethod = "email"
	AuthMethodOAuth   AuthMethod = "oauth"
	AuthMethodWallet  AuthMethod = "wallet"
)

// ReadSession is a reusable bearer token scoped to a sub-organization,
// present only for flows that complete inside the secure execution context.
type ReadSession struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // epoch seconds
}

// Session is the canonical authenticated-session record. It is created on
// resolver completion, replaced wholesale on re-login, and destroyed on
// logout. A nil ReadSession marks a cold session: identity established but
// no bearer token, so privileged actions must re-prove.
type Session struct {
	UserID           string       `json:"user_id"`
	Username         string       `json:"username"`
	OrganizationID   string       `json:"organization_id"`
	OrganizationName string       `json:"organization_name,omitempty"`
	ReadSession      *ReadSession `json:"read_session,omitempty"`
	AuthMethod       AuthMethod   `json:"auth_method"`
}

// GetUserUUID parses the user id, tolerating backend-issued opaque ids by
// returning the parse error alongside uuid.Nil.
func (s *Session) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

// Expiry returns the absolute read-session deadline, or the zero time for
// cold sessions.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ReadSession == nil {
		return time.Time{}
	}
	return time.Unix(s.ReadSession.Expiry, 0)
}

// CanRead reports whether the session establishes an identity at all.
// Cold sessions can read; privileged actions additionally need
// CanReadWrite.
func (s *Session) CanRead() bool {
	return s != nil && s.OrganizationID != ""
}

// CanReadWrite reports whether the session holds an unexpired bearer
// token. This is the hard expiry check; local timers only raise warnings.
func (s *Session) CanReadWrite(now time.Time) bool {
	if s == nil || s.ReadSession == nil || s.ReadSession.Token == "" {
		return false
	}
	return now.Before(s.Expiry())
}

// EnsureReadWrite is the hard expiry check run before privileged calls.
// It returns ErrSessionExpired when the bearer token is missing or past
// its deadline; the scheduler's warning is only ever a soft local signal.
func (s *Session) EnsureReadWrite(now time.Time) error {
	if s.CanReadWrite(now) {
		return nil
	}
	return ErrSessionExpired
}

// IsCold reports whether the session lacks a bearer token.
func (s *Session) IsCold() bool {
	return s != nil && s.ReadSession == nil
}

func (s *Session) String() string {
	if s == nil {
		return "<nil>"
	}
	token := "<none>"
	if s.ReadSession != nil {
		token = fmt.Sprintf("expires=%d", s.ReadSession.Expiry)
	}
	return fmt.Sprintf(
		"user=%s org=%s method=%s read=%s",
		s.UserID,
		s.OrganizationID,
		s.AuthMethod,
		token,
	)
}

// SessionFromLogin builds a Session from a completed login. Cold logins
// (no bearer token in the result) produce a nil ReadSession.
func SessionFromLogin(result *LoginResult, method AuthMethod) *Session {
	if result == nil {
		return nil
	}

	var read *ReadSession
	if result.Session != "" {
		read = &ReadSession{
			Token:  result.Session,
			Expiry: result.SessionExpiry,
		}
	}

	return &Session{
		UserID:           result.UserID,
		Username:         result.Username,
		OrganizationID:   result.OrganizationID,
		OrganizationName: result.OrganizationName,
		ReadSession:      read,
		AuthMethod:       method,
	}
}
