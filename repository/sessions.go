// Package repository provides Bun-backed persistence for the session
// record and the preferred-wallet record, the two pieces of state that
// must survive reloads.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	ewallet "github.com/goliatone/go-embedded-wallet"
)

// SessionModel is the Bun model for the persisted session record. The
// record is replaced wholesale on every re-login, so at most one row is
// live at a time.
type SessionModel struct {
	bun.BaseModel `bun:"table:wallet_sessions"`

	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid"`
	UserID           string     `bun:"user_id,notnull"`
	Username         string     `bun:"username"`
	OrganizationID   string     `bun:"organization_id,notnull"`
	OrganizationName string     `bun:"organization_name"`
	AuthMethod       string     `bun:"auth_method,notnull"`
	ReadToken        string     `bun:"read_token"`
	ReadExpiry       *int64     `bun:"read_expiry"`
	CreatedAt        time.Time  `bun:"created_at,default:current_timestamp"`
	UpdatedAt        *time.Time `bun:"updated_at"`
}

// SessionRepository implements ewallet.SessionRepository using Bun.
type SessionRepository struct {
	repo.Repository[*SessionModel]
	db *bun.DB
}

var _ ewallet.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *bun.DB) *SessionRepository {
	base := repo.NewRepository[*SessionModel](db, repo.ModelHandlers[*SessionModel]{
		NewRecord: func() *SessionModel { return &SessionModel{} },
		GetID: func(m *SessionModel) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *SessionModel, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &SessionRepository{
		Repository: base,
		db:         db,
	}
}

// LatestSessionSQL selects the most recent session row; at most one is
// live at a time but ordering keeps reads deterministic either way.
var LatestSessionSQL = `SELECT * FROM wallet_sessions ORDER BY created_at DESC LIMIT 1`

// Load returns the persisted session, or ewallet.ErrSessionNotFound.
func (r *SessionRepository) Load(ctx context.Context) (*ewallet.Session, error) {
	records, err := r.Repository.RawTx(ctx, r.db, LatestSessionSQL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ewallet.ErrSessionNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not load session")
	}
	if len(records) == 0 || records[0] == nil {
		return nil, ewallet.ErrSessionNotFound
	}
	return r.toSession(records[0]), nil
}

// Save replaces the persisted session wholesale.
func (r *SessionRepository) Save(ctx context.Context, session *ewallet.Session) error {
	if session == nil {
		return r.Clear(ctx)
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*SessionModel)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not clear previous session")
		}

		model := r.toModel(session)
		if _, err := r.Repository.CreateTx(ctx, tx, model); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not save session")
		}
		return nil
	})
}

// Clear deletes any persisted session record.
func (r *SessionRepository) Clear(ctx context.Context) error {
	_, err := r.db.NewDelete().
		Model((*SessionModel)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not clear session")
	}
	return nil
}

func (r *SessionRepository) toSession(model *SessionModel) *ewallet.Session {
	session := &ewallet.Session{
		UserID:           model.UserID,
		Username:         model.Username,
		OrganizationID:   model.OrganizationID,
		OrganizationName: model.OrganizationName,
		AuthMethod:       ewallet.AuthMethod(model.AuthMethod),
	}
	if model.ReadToken != "" && model.ReadExpiry != nil {
		session.ReadSession = &ewallet.ReadSession{
			Token:  model.ReadToken,
			Expiry: *model.ReadExpiry,
		}
	}
	return session
}

func (r *SessionRepository) toModel(session *ewallet.Session) *SessionModel {
	now := time.Now()
	model := &SessionModel{
		ID:               uuid.New(),
		UserID:           session.UserID,
		Username:         session.Username,
		OrganizationID:   session.OrganizationID,
		OrganizationName: session.OrganizationName,
		AuthMethod:       string(session.AuthMethod),
		CreatedAt:        now,
		UpdatedAt:        &now,
	}
	if session.ReadSession != nil {
		model.ReadToken = session.ReadSession.Token
		expiry := session.ReadSession.Expiry
		model.ReadExpiry = &expiry
	}
	return model
}
