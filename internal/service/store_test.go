package service

import (
	"context"
	"sync"
	"time"

	"github.com/graphenelabs/graphbot/internal/model"
)

// In-memory stores mirroring the conditional-write semantics of the SQL
// layer, so engine behavior is testable without Postgres.

type fakeUsers struct {
	mu   sync.Mutex
	rows map[int64]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[int64]*model.User)}
}

func (f *fakeUsers) EnsureRegistered(_ context.Context, id int64, username, firstName, lastName *string, referralCode string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	u := &model.User{
		TelegramID:   id,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		ReferralCode: referralCode,
		JoinedAt:     time.Now(),
	}
	f.rows[id] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByReferralCode(_ context.Context, code string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUsers) SetWallet(_ context.Context, id int64, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.WalletAddress = &address
	return nil
}

func (f *fakeUsers) LinkAndCredit(_ context.Context, userID, referrerID, bonus int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[userID]
	if !ok || u.ReferredBy != nil || userID == referrerID {
		return false, nil
	}
	ref, ok := f.rows[referrerID]
	if !ok {
		return false, nil
	}
	u.ReferredBy = &referrerID
	ref.Balance += bonus
	return true, nil
}

func (f *fakeUsers) ClaimAirdrop(_ context.Context, id, reward int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok || u.AirdropClaimed {
		return false, nil
	}
	u.AirdropClaimed = true
	u.Balance += reward
	return true, nil
}

func (f *fakeUsers) CountReferrals(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.rows {
		if u.ReferredBy != nil && *u.ReferredBy == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) Stats(_ context.Context) (*model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &model.Stats{}
	for _, u := range f.rows {
		s.TotalUsers++
		s.TotalBalance += u.Balance
		if u.AirdropClaimed {
			s.ClaimedUsers++
		}
		if u.ReferredBy != nil {
			s.ReferredUsers++
		}
	}
	return s, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeUsers) balance(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		return u.Balance
	}
	return 0
}

type fakeTasks struct {
	mu   sync.Mutex
	rows map[int64]map[model.TaskKind]bool
	// seedKinds overrides the seeded set when non-nil, to provoke
	// invariant failures in tests.
	seedKinds []model.TaskKind
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{rows: make(map[int64]map[model.TaskKind]bool)}
}

func (f *fakeTasks) EnsureSeeded(_ context.Context, id int64, kinds []model.TaskKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; ok {
		return nil
	}
	if f.seedKinds != nil {
		kinds = f.seedKinds
	}
	set := make(map[model.TaskKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = false
	}
	f.rows[id] = set
	return nil
}

func (f *fakeTasks) ListByUser(_ context.Context, id int64) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.rows[id]
	out := make([]model.Task, 0, len(set))
	for k, done := range set {
		out = append(out, model.Task{TelegramID: id, Kind: k, Completed: done})
	}
	return out, nil
}

func (f *fakeTasks) Complete(_ context.Context, id int64, kind model.TaskKind) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if done, exists := set[kind]; !exists || done {
		return false, nil
	}
	set[kind] = true
	return true, nil
}

func (f *fakeTasks) Progress(_ context.Context, id int64) (model.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.rows[id]
	p := model.Progress{Total: len(set)}
	for _, done := range set {
		if done {
			p.Completed++
		}
	}
	return p, nil
}

func (f *fakeTasks) CompletedTotal(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, set := range f.rows {
		for _, done := range set {
			if done {
				n++
			}
		}
	}
	return n, nil
}
