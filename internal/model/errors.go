package model

import "errors"

var (
	// ErrUserNotFound means no row exists for the identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidWallet means the address failed the format check.
	ErrInvalidWallet = errors.New("invalid wallet address")
	// ErrSessionExpired means a quiz answer arrived for a session that
	// no longer exists or was replaced by a newer one.
	ErrSessionExpired = errors.New("quiz session expired")
	// ErrInvariant marks states that must never occur, e.g. a partially
	// seeded checklist. Logged and surfaced generically, never repaired.
	ErrInvariant = errors.New("invariant violation")
)
