// Package service implements the task/reward progression engine: user
// registry, task tracker, quiz engine, and reward dispenser. Services
// accept store interfaces so the engine is testable without Postgres.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/internal/model"
)

// referralCodePrefix plus the leading digits of the Telegram ID form the
// referral code. Truncation can collide for IDs sharing a prefix; that is
// a documented limitation of the scheme, not something to repair here.
const (
	referralCodePrefix = "GRAPH"
	referralCodeDigits = 6
)

// UserStore is the users-table surface the registry needs.
type UserStore interface {
	EnsureRegistered(ctx context.Context, id int64, username, firstName, lastName *string, referralCode string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetWallet(ctx context.Context, id int64, address string) error
	CountReferrals(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// Users is the user registry.
type Users struct {
	store UserStore
}

// NewUsers creates the registry service.
func NewUsers(store UserStore) *Users {
	return &Users{store: store}
}

// DeriveReferralCode builds the deterministic referral code for an identity.
func DeriveReferralCode(id int64) string {
	digits := strconv.FormatInt(id, 10)
	if len(digits) > referralCodeDigits {
		digits = digits[:referralCodeDigits]
	}
	return referralCodePrefix + digits
}

// Profile carries the display fields supplied by the transport.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

// EnsureRegistered creates the user on first contact and returns the row.
// Idempotent under concurrent duplicate calls.
func (s *Users) EnsureRegistered(ctx context.Context, id int64, p Profile) (*model.User, error) {
	u, err := s.store.EnsureRegistered(ctx, id,
		optional(p.Username), optional(p.FirstName), optional(p.LastName),
		DeriveReferralCode(id))
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "service.users", "user.ensured",
		slog.Int64("user_id", id),
		slog.String("referral_code", u.ReferralCode),
	)
	return u, nil
}

// Get returns the user row or model.ErrUserNotFound.
func (s *Users) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.store.GetByID(ctx, id)
}

// SetWallet validates and stores a wallet address. The format check is
// the same prefix+length heuristic the program has always used.
func (s *Users) SetWallet(ctx context.Context, id int64, address string) error {
	address = strings.TrimSpace(address)
	if !ValidWalletAddress(address) {
		return model.ErrInvalidWallet
	}
	if err := s.store.SetWallet(ctx, id, address); err != nil {
		return err
	}
	logger.Info(ctx, "service.users", "wallet.set",
		slog.Int64("user_id", id),
	)
	return nil
}

// ValidWalletAddress reports whether the address passes the format check:
// "sol" prefix and at least 32 characters total.
func ValidWalletAddress(address string) bool {
	return strings.HasPrefix(address, "sol") && len(address) >= 32
}

// CountReferrals returns how many users joined through id's code.
func (s *Users) CountReferrals(ctx context.Context, id int64) (int64, error) {
	return s.store.CountReferrals(ctx, id)
}

// Stats returns program-wide aggregates.
func (s *Users) Stats(ctx context.Context) (*model.Stats, error) {
	return s.store.Stats(ctx)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
