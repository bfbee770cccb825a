package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/metrics"
	"github.com/graphenelabs/graphbot/internal/model"
)

// Reward amounts in $GRAPH units.
const (
	ReferralBonus = 30
	AirdropReward = 100
)

// RewardStore is the users-table surface the dispenser needs.
type RewardStore interface {
	GetByReferralCode(ctx context.Context, code string) (*model.User, error)
	LinkAndCredit(ctx context.Context, userID, referrerID, bonus int64) (bool, error)
	ClaimAirdrop(ctx context.Context, id, reward int64) (bool, error)
}

// taskProgressor is the slice of the task tracker the dispenser needs.
type taskProgressor interface {
	AllComplete(ctx context.Context, id int64) (bool, error)
}

// Rewards dispenses the referral bonus and the one-time airdrop.
type Rewards struct {
	store RewardStore
	tasks taskProgressor
	rec   metrics.Recorder
}

// NewRewards creates the dispenser.
func NewRewards(store RewardStore, tasks taskProgressor, rec metrics.Recorder) *Rewards {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &Rewards{store: store, tasks: tasks, rec: rec}
}

// LinkReferral associates the user with the owner of code and credits the
// referrer once. Unknown code, self-referral, and an already linked user
// all report LinkNotApplicable without touching anything. On success the
// referrer row is returned so the caller can notify them.
func (s *Rewards) LinkReferral(ctx context.Context, userID int64, code string) (model.LinkOutcome, *model.User, error) {
	referrer, err := s.store.GetByReferralCode(ctx, code)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LinkNotApplicable, nil, nil
	}
	if err != nil {
		return model.LinkNotApplicable, nil, err
	}
	if referrer.TelegramID == userID {
		return model.LinkNotApplicable, nil, nil
	}

	linked, err := s.store.LinkAndCredit(ctx, userID, referrer.TelegramID, ReferralBonus)
	if err != nil {
		return model.LinkNotApplicable, nil, err
	}
	if !linked {
		return model.LinkNotApplicable, nil, nil
	}

	s.rec.RecordReferralLinked()
	logger.Info(ctx, "service.rewards", "referral.linked",
		slog.Int64("user_id", userID),
		slog.Int64("referrer_id", referrer.TelegramID),
		slog.Int("reward", ReferralBonus),
	)
	return model.LinkEstablished, referrer, nil
}

// ClaimAirdrop grants the one-time bulk reward. Precondition order is
// fixed: incomplete checklist first, then the already-claimed check,
// which rides on the conditional update so concurrent claims cannot both
// succeed.
func (s *Rewards) ClaimAirdrop(ctx context.Context, userID int64) (model.ClaimOutcome, error) {
	done, err := s.tasks.AllComplete(ctx, userID)
	if err != nil {
		return model.ClaimIncomplete, err
	}
	if !done {
		return model.ClaimIncomplete, nil
	}

	granted, err := s.store.ClaimAirdrop(ctx, userID, AirdropReward)
	if err != nil {
		return model.ClaimIncomplete, err
	}
	if !granted {
		return model.ClaimAlreadyClaimed, nil
	}

	s.rec.RecordClaimGranted()
	logger.Info(ctx, "service.rewards", "airdrop.claimed",
		slog.Int64("user_id", userID),
		slog.Int("reward", AirdropReward),
	)
	return model.ClaimGranted, nil
}
