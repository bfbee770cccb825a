// Package model defines the typed rows and enumerations of the incentive
// program: users, airdrop tasks, and the outcome values mutations report.
package model

import "time"

// User is one row of the users table, keyed by Telegram ID.
type User struct {
	TelegramID     int64     `db:"telegram_id"`
	Username       *string   `db:"username"`
	FirstName      *string   `db:"first_name"`
	LastName       *string   `db:"last_name"`
	Balance        int64     `db:"balance"`
	WalletAddress  *string   `db:"wallet_address"`
	ReferralCode   string    `db:"referral_code"`
	ReferredBy     *int64    `db:"referred_by"`
	AirdropClaimed bool      `db:"airdrop_claimed"`
	JoinedAt       time.Time `db:"joined_at"`
}

// HasWallet reports whether a wallet address is stored.
func (u *User) HasWallet() bool {
	return u.WalletAddress != nil && *u.WalletAddress != ""
}

// Stats is an aggregate snapshot over all users.
type Stats struct {
	TotalUsers    int64 `db:"total_users"`
	ClaimedUsers  int64 `db:"claimed_users"`
	TotalBalance  int64 `db:"total_balance"`
	ReferredUsers int64 `db:"referred_users"`
}
