package ewallet_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ewallet "github.com/goliatone/go-embedded-wallet"
)

func TestSessionStoreRestoreEmpty(t *testing.T) {
	store := ewallet.NewSessionStore(&memSessionRepo{}).WithLogger(silentLogger{})

	session, err := store.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Nil(t, store.Current())
}

func TestSessionStoreRestoreExisting(t *testing.T) {
	persisted := &ewallet.Session{UserID: "user-1", OrganizationID: "org-1"}
	store := ewallet.NewSessionStore(&memSessionRepo{session: persisted}).WithLogger(silentLogger{})

	session, err := store.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, persisted, session)
	assert.Equal(t, persisted, store.Current())
}

func TestSessionStoreSetPersistsBeforeSwap(t *testing.T) {
	repo := &memSessionRepo{}
	store := ewallet.NewSessionStore(repo).WithLogger(silentLogger{})

	session := &ewallet.Session{UserID: "user-1", OrganizationID: "org-1"}
	require.NoError(t, store.Set(context.Background(), session))

	assert.Equal(t, session, store.Current())
	assert.Equal(t, session, repo.session)
}

func TestSessionStoreSetKeepsPreviousOnSaveError(t *testing.T) {
	repo := &memSessionRepo{}
	store := ewallet.NewSessionStore(repo).WithLogger(silentLogger{})

	first := &ewallet.Session{UserID: "user-1"}
	require.NoError(t, store.Set(context.Background(), first))

	repo.saveErr = errors.New("disk full", errors.CategoryInternal)
	err := store.Set(context.Background(), &ewallet.Session{UserID: "user-2"})
	require.Error(t, err)

	assert.Equal(t, first, store.Current())
}

func TestSessionStoreClear(t *testing.T) {
	repo := &memSessionRepo{session: &ewallet.Session{UserID: "user-1"}}
	store := ewallet.NewSessionStore(repo).WithLogger(silentLogger{})

	_, err := store.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store.Current())

	require.NoError(t, store.Clear(context.Background()))
	assert.Nil(t, store.Current())
	assert.Nil(t, repo.session)
}
