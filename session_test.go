package ewallet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ewallet "github.com/goliatone/go-embedded-wallet"
)

func TestSessionFromLoginReadWrite(t *testing.T) {
	expiry := time.Now().Add(15 * time.Minute).Unix()

	session := ewallet.SessionFromLogin(&ewallet.LoginResult{
		OrganizationID:   "org-1",
		OrganizationName: "Email Auth - Embedded Wallet",
		UserID:           "user-1",
		Username:         "peperone@example.com",
		Session:          "token-abc",
		SessionExpiry:    expiry,
	}, ewallet.AuthMethodEmail)

	require.NotNil(t, session)
	require.NotNil(t, session.ReadSession)
	assert.Equal(t, "token-abc", session.ReadSession.Token)
	assert.Equal(t, expiry, session.ReadSession.Expiry)
	assert.Equal(t, ewallet.AuthMethodEmail, session.AuthMethod)
	assert.False(t, session.IsCold())
}

func TestSessionFromLoginCold(t *testing.T) {
	session := ewallet.SessionFromLogin(&ewallet.LoginResult{
		OrganizationID: "org-1",
		UserID:         "user-1",
	}, ewallet.AuthMethodPasskey)

	require.NotNil(t, session)
	assert.Nil(t, session.ReadSession)
	assert.True(t, session.IsCold())
	assert.True(t, session.Expiry().IsZero())
}

func TestSessionFromLoginNilResult(t *testing.T) {
	assert.Nil(t, ewallet.SessionFromLogin(nil, ewallet.AuthMethodEmail))
}

func TestSessionCanReadWrite(t *testing.T) {
	now := time.Now()

	session := &ewallet.Session{
		ReadSession: &ewallet.ReadSession{
			Token:  "token-abc",
			Expiry: now.Add(time.Minute).Unix(),
		},
	}

	assert.True(t, session.CanReadWrite(now))
	assert.False(t, session.CanReadWrite(now.Add(2*time.Minute)))
}

func TestSessionCanReadWriteColdAndNil(t *testing.T) {
	now := time.Now()

	var nilSession *ewallet.Session
	assert.False(t, nilSession.CanReadWrite(now))

	cold := &ewallet.Session{UserID: "user-1"}
	assert.False(t, cold.CanReadWrite(now))

	empty := &ewallet.Session{ReadSession: &ewallet.ReadSession{Expiry: now.Add(time.Hour).Unix()}}
	assert.False(t, empty.CanReadWrite(now))
}

func TestSessionEnsureReadWrite(t *testing.T) {
	now := time.Now()

	live := &ewallet.Session{
		ReadSession: &ewallet.ReadSession{
			Token:  "token-abc",
			Expiry: now.Add(time.Minute).Unix(),
		},
	}
	assert.NoError(t, live.EnsureReadWrite(now))
	assert.ErrorIs(t, live.EnsureReadWrite(now.Add(2*time.Minute)), ewallet.ErrSessionExpired)

	cold := &ewallet.Session{UserID: "user-1"}
	assert.ErrorIs(t, cold.EnsureReadWrite(now), ewallet.ErrSessionExpired)
}

func TestSessionCanRead(t *testing.T) {
	var nilSession *ewallet.Session
	assert.False(t, nilSession.CanRead())

	cold := &ewallet.Session{UserID: "user-1", OrganizationID: "org-1"}
	assert.True(t, cold.CanRead())
	assert.False(t, cold.CanReadWrite(time.Now()))
}

func TestSessionString(t *testing.T) {
	var nilSession *ewallet.Session
	assert.Equal(t, "<nil>", nilSession.String())

	cold := &ewallet.Session{
		UserID:         "user-1",
		OrganizationID: "org-1",
		AuthMethod:     ewallet.AuthMethodPasskey,
	}
	assert.Equal(t, "user=user-1 org=org-1 method=passkey read=<none>", cold.String())

	live := &ewallet.Session{
		UserID:         "user-1",
		OrganizationID: "org-1",
		AuthMethod:     ewallet.AuthMethodEmail,
		ReadSession:    &ewallet.ReadSession{Token: "token-abc", Expiry: 1700000000},
	}
	assert.Equal(t, "user=user-1 org=org-1 method=email read=expires=1700000000", live.String())
}

func TestSessionGetUserUUID(t *testing.T) {
	session := &ewallet.Session{UserID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}
	id, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())

	opaque := &ewallet.Session{UserID: "backend-opaque-id"}
	_, err = opaque.GetUserUUID()
	assert.Error(t, err)
}
