package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-embedded-wallet/wallets"
)

// PreferredWalletModel is the Bun model for the advisory preferred-wallet
// record, keyed by user.
type PreferredWalletModel struct {
	bun.BaseModel `bun:"table:preferred_wallets"`

	UserID    string     `bun:"user_id,pk"`
	WalletID  string     `bun:"wallet_id,notnull"`
	UpdatedAt *time.Time `bun:"updated_at"`
}

// PreferredWalletRepository implements wallets.PreferenceStore using Bun.
type PreferredWalletRepository struct {
	db *bun.DB
}

var _ wallets.PreferenceStore = (*PreferredWalletRepository)(nil)

func NewPreferredWalletRepository(db *bun.DB) *PreferredWalletRepository {
	return &PreferredWalletRepository{db: db}
}

// Load returns the user's preferred wallet, or the zero value when no
// record exists.
func (r *PreferredWalletRepository) Load(ctx context.Context, userID string) (wallets.Preferred, error) {
	model := &PreferredWalletModel{}
	err := r.db.NewSelect().
		Model(model).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wallets.Preferred{}, nil
		}
		return wallets.Preferred{}, goerrors.Wrap(err, goerrors.CategoryInternal, "could not load preferred wallet")
	}

	return wallets.Preferred{
		UserID:   model.UserID,
		WalletID: model.WalletID,
	}, nil
}

// Save upserts the preferred wallet for the user.
func (r *PreferredWalletRepository) Save(ctx context.Context, pref wallets.Preferred) error {
	now := time.Now()
	model := &PreferredWalletModel{
		UserID:    pref.UserID,
		WalletID:  pref.WalletID,
		UpdatedAt: &now,
	}

	_, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT (user_id) DO UPDATE").
		Set("wallet_id = EXCLUDED.wallet_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not save preferred wallet")
	}
	return nil
}
