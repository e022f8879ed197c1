package ewallet

import (
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Resolution is the outcome of turning an identity proof into a
// sub-organization identity. Created reports whether a fresh
// sub-organization was minted for the proof; User is populated from the
// creation response and is nil for lookups that matched.
type Resolution struct {
	SubOrgID string
	Created  bool
	User     *CreateSubOrgResponse
}

// Every resolver treats an empty lookup result as the signup trigger and
// creates a sub-organization, never as a terminal failure. Lookup always
// runs first so one proof cannot mint duplicate sub-organizations.

// localUserID derives a stable local identity for cold sessions when the
// creation response carries no user id. Deterministic per email, so
// repeated signups for one address map to one identity.
func localUserID(email string) string {
	if email == "" {
		return uuid.NewString()
	}
	if id, err := hashid.NewUUID(email); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// coldSession builds the locally-stored session for a freshly created
// sub-organization. No bearer token is available; the next privileged
// action must re-prove.
func coldSession(res Resolution, email string, method AuthMethod) *Session {
	userID := ""
	username := ""
	if res.User != nil {
		userID = res.User.UserID
		username = res.User.Username
	}
	if userID == "" {
		userID = localUserID(email)
	}
	if username == "" {
		username = email
	}

	return &Session{
		UserID:         userID,
		Username:       username,
		OrganizationID: res.SubOrgID,
		AuthMethod:     method,
	}
}
