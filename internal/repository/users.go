// Package repository implements the storage layer over Postgres via sqlx.
// Every multi-step mutation is either a single conditional statement or a
// transaction; callers never do check-then-write against these tables.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/graphenelabs/graphbot/internal/model"
)

// Users provides access to the users table.
type Users struct {
	db *sqlx.DB
}

// NewUsers creates the users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

const insertUserSQL = `
INSERT INTO users (telegram_id, username, first_name, last_name, referral_code)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (telegram_id) DO NOTHING`

// EnsureRegistered inserts the user if absent and returns the stored row.
// Safe under concurrent duplicate calls: the primary key absorbs the race
// and both callers read back the single surviving row.
func (r *Users) EnsureRegistered(ctx context.Context, id int64, username, firstName, lastName *string, referralCode string) (*model.User, error) {
	if _, err := r.db.ExecContext(ctx, insertUserSQL, id, username, firstName, lastName, referralCode); err != nil {
		return nil, fmt.Errorf("insert user %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns the user row or model.ErrUserNotFound.
func (r *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE telegram_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return &u, nil
}

// GetByReferralCode returns the user owning the code or model.ErrUserNotFound.
func (r *Users) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE referral_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by code: %w", err)
	}
	return &u, nil
}

// SetWallet stores the wallet address, overwriting any previous value.
func (r *Users) SetWallet(ctx context.Context, id int64, address string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET wallet_address = $2 WHERE telegram_id = $1`, id, address)
	if err != nil {
		return fmt.Errorf("set wallet for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set wallet for %d: %w", id, err)
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// LinkAndCredit sets referred_by on the referred user and credits the
// referrer in one transaction. The conditional link update is the guard:
// when it touches zero rows (already linked, or self-referral) nothing is
// credited and false is returned.
func (r *Users) LinkAndCredit(ctx context.Context, userID, referrerID, bonus int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin link tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET referred_by = $2
		WHERE telegram_id = $1 AND referred_by IS NULL AND telegram_id <> $2`,
		userID, referrerID)
	if err != nil {
		return false, fmt.Errorf("link referral %d -> %d: %w", userID, referrerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link referral %d -> %d: %w", userID, referrerID, err)
	}
	if n == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $2 WHERE telegram_id = $1`,
		referrerID, bonus); err != nil {
		return false, fmt.Errorf("credit referrer %d: %w", referrerID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit link tx: %w", err)
	}
	return true, nil
}

// ClaimAirdrop flips airdrop_claimed and credits the reward in a single
// conditional statement. Returns false when already claimed; concurrent
// claims cannot both succeed.
func (r *Users) ClaimAirdrop(ctx context.Context, id, reward int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET balance = balance + $2, airdrop_claimed = TRUE
		WHERE telegram_id = $1 AND NOT airdrop_claimed`,
		id, reward)
	if err != nil {
		return false, fmt.Errorf("claim airdrop for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim airdrop for %d: %w", id, err)
	}
	return n == 1, nil
}

// CountReferrals returns how many users name id as their referrer.
func (r *Users) CountReferrals(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM users WHERE referred_by = $1`, id); err != nil {
		return 0, fmt.Errorf("count referrals for %d: %w", id, err)
	}
	return n, nil
}

// Stats aggregates program totals across all users.
func (r *Users) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*)                                   AS total_users,
		       COUNT(*) FILTER (WHERE airdrop_claimed)    AS claimed_users,
		       COALESCE(SUM(balance), 0)                  AS total_balance,
		       COUNT(*) FILTER (WHERE referred_by IS NOT NULL) AS referred_users
		FROM users`)
	if err != nil {
		return nil, fmt.Errorf("aggregate user stats: %w", err)
	}
	return &s, nil
}
