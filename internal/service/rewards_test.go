package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/graphenelabs/graphbot/internal/model"
)

type fixture struct {
	users   *fakeUsers
	userSvc *Users
	taskSvc *Tasks
	quiz    *Quiz
	rewards *Rewards
}

func newFixture() *fixture {
	users := newFakeUsers()
	taskSvc := NewTasks(newFakeTasks(), nil)
	return &fixture{
		users:   users,
		userSvc: NewUsers(users),
		taskSvc: taskSvc,
		quiz:    NewQuiz(taskSvc, nil, time.Minute),
		rewards: NewRewards(users, taskSvc, nil),
	}
}

func (f *fixture) register(t *testing.T, id int64) *model.User {
	t.Helper()
	u, err := f.userSvc.EnsureRegistered(context.Background(), id, Profile{})
	if err != nil {
		t.Fatalf("register %d: %v", id, err)
	}
	return u
}

func TestLinkReferralUnknownCode(t *testing.T) {
	f := newFixture()
	f.register(t, 1)

	out, ref, err := f.rewards.LinkReferral(context.Background(), 1, "GRAPH000000")
	if err != nil || out != model.LinkNotApplicable || ref != nil {
		t.Fatalf("unknown code: (%v, %v, %v), want NotApplicable", out, ref, err)
	}
}

func TestLinkReferralSelf(t *testing.T) {
	f := newFixture()
	u := f.register(t, 1)

	out, _, err := f.rewards.LinkReferral(context.Background(), 1, u.ReferralCode)
	if err != nil || out != model.LinkNotApplicable {
		t.Fatalf("self referral: (%v, %v), want NotApplicable", out, err)
	}
	if f.users.balance(1) != 0 {
		t.Fatal("self referral must not credit anything")
	}
}

func TestLinkReferralExactlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	referrer := f.register(t, 100)
	f.register(t, 200)

	out, ref, err := f.rewards.LinkReferral(ctx, 200, referrer.ReferralCode)
	if err != nil || out != model.LinkEstablished {
		t.Fatalf("first link: (%v, %v), want LinkEstablished", out, err)
	}
	if ref == nil || ref.TelegramID != 100 {
		t.Fatal("referrer row must be returned on success")
	}
	if got := f.users.balance(100); got != ReferralBonus {
		t.Fatalf("referrer balance = %d, want %d", got, ReferralBonus)
	}

	u, _ := f.userSvc.Get(ctx, 200)
	if u.ReferredBy == nil || *u.ReferredBy != 100 {
		t.Fatal("referred_by must be set to the referrer")
	}

	// Second attempt with the same (or any) code is a no-op.
	out, _, err = f.rewards.LinkReferral(ctx, 200, referrer.ReferralCode)
	if err != nil || out != model.LinkNotApplicable {
		t.Fatalf("second link: (%v, %v), want NotApplicable", out, err)
	}
	if got := f.users.balance(100); got != ReferralBonus {
		t.Fatalf("referrer balance after repeat = %d, want %d", got, ReferralBonus)
	}
}

func TestClaimAirdropIncomplete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, 1)
	if _, err := f.taskSvc.EnsureTasks(ctx, 1); err != nil {
		t.Fatal(err)
	}

	out, err := f.rewards.ClaimAirdrop(ctx, 1)
	if err != nil || out != model.ClaimIncomplete {
		t.Fatalf("claim with open tasks: (%v, %v), want ClaimIncomplete", out, err)
	}
	if f.users.balance(1) != 0 {
		t.Fatal("incomplete claim must not credit anything")
	}
}

func TestClaimAirdropExactlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, 1)
	if _, err := f.taskSvc.EnsureTasks(ctx, 1); err != nil {
		t.Fatal(err)
	}
	for _, k := range model.TaskKinds {
		if _, err := f.taskSvc.Complete(ctx, 1, k); err != nil {
			t.Fatal(err)
		}
	}

	out, err := f.rewards.ClaimAirdrop(ctx, 1)
	if err != nil || out != model.ClaimGranted {
		t.Fatalf("first claim: (%v, %v), want ClaimGranted", out, err)
	}
	if got := f.users.balance(1); got != AirdropReward {
		t.Fatalf("balance = %d, want %d", got, AirdropReward)
	}

	out, err = f.rewards.ClaimAirdrop(ctx, 1)
	if err != nil || out != model.ClaimAlreadyClaimed {
		t.Fatalf("second claim: (%v, %v), want ClaimAlreadyClaimed", out, err)
	}
	if got := f.users.balance(1); got != AirdropReward {
		t.Fatalf("balance after repeat claim = %d, want %d", got, AirdropReward)
	}
}

// Full program walkthrough: register, complete the checklist through the
// real flows (wallet, quiz, referral), claim once.
func TestProgramEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u1 := f.register(t, 111222333)
	if u1.ReferralCode != "GRAPH111222" {
		t.Fatalf("referral code = %q, want GRAPH111222", u1.ReferralCode)
	}
	if _, err := f.taskSvc.EnsureTasks(ctx, u1.TelegramID); err != nil {
		t.Fatal(err)
	}

	// connect_wallet via wallet flow
	if err := f.userSvc.SetWallet(ctx, u1.TelegramID, "solWALLETADDRESS123456789012345"); err != nil {
		t.Fatal(err)
	}
	mustComplete(t, f.taskSvc, u1.TelegramID, model.TaskConnectWallet)

	// join_channel and follow_twitter via their confirmations
	mustComplete(t, f.taskSvc, u1.TelegramID, model.TaskJoinChannel)
	mustComplete(t, f.taskSvc, u1.TelegramID, model.TaskFollowTwitter)

	// invite_friend: U2 joins through U1's link
	f.register(t, 999888777)
	out, _, err := f.rewards.LinkReferral(ctx, 999888777, u1.ReferralCode)
	if err != nil || out != model.LinkEstablished {
		t.Fatalf("U2 link: (%v, %v)", out, err)
	}
	mustComplete(t, f.taskSvc, u1.TelegramID, model.TaskInviteFriend)

	// complete_quiz: pass the quiz
	res := answerAll(t, f.quiz, u1.TelegramID, f.quiz.Start(ctx, u1.TelegramID), len(DefaultQuestions))
	if !res.Passed {
		t.Fatal("quiz must pass with all answers correct")
	}

	p, err := f.taskSvc.Progress(ctx, u1.TelegramID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.AllDone() || p.Percent() != 100 {
		t.Fatalf("progress = %d/%d (%d%%), want 5/5 100%%", p.Completed, p.Total, p.Percent())
	}

	out2, err := f.rewards.ClaimAirdrop(ctx, u1.TelegramID)
	if err != nil || out2 != model.ClaimGranted {
		t.Fatalf("claim: (%v, %v)", out2, err)
	}
	// 30 referral bonus + 100 airdrop
	if got := f.users.balance(u1.TelegramID); got != ReferralBonus+AirdropReward {
		t.Fatalf("final balance = %d, want %d", got, ReferralBonus+AirdropReward)
	}
}

func TestClaimAirdropConcurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.register(t, 1)
	if _, err := f.taskSvc.EnsureTasks(ctx, 1); err != nil {
		t.Fatal(err)
	}
	for _, k := range model.TaskKinds {
		if _, err := f.taskSvc.Complete(ctx, 1, k); err != nil {
			t.Fatal(err)
		}
	}

	const n = 32
	outcomes := make(chan model.ClaimOutcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.rewards.ClaimAirdrop(ctx, 1)
			if err != nil {
				t.Error(err)
				return
			}
			outcomes <- out
		}()
	}
	wg.Wait()
	close(outcomes)

	granted := 0
	for out := range outcomes {
		if out == model.ClaimGranted {
			granted++
		}
	}
	if granted != 1 {
		t.Fatalf("%d of %d concurrent claims granted, want exactly 1", granted, n)
	}
	if got := f.users.balance(1); got != AirdropReward {
		t.Fatalf("balance = %d after concurrent claims, want %d", got, AirdropReward)
	}
}

func TestLinkReferralConcurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	referrer := f.register(t, 100)
	f.register(t, 200)

	const n = 32
	outcomes := make(chan model.LinkOutcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, _, err := f.rewards.LinkReferral(ctx, 200, referrer.ReferralCode)
			if err != nil {
				t.Error(err)
				return
			}
			outcomes <- out
		}()
	}
	wg.Wait()
	close(outcomes)

	established := 0
	for out := range outcomes {
		if out == model.LinkEstablished {
			established++
		}
	}
	if established != 1 {
		t.Fatalf("%d of %d concurrent links established, want exactly 1", established, n)
	}
	if got := f.users.balance(100); got != ReferralBonus {
		t.Fatalf("referrer credited %d after concurrent links, want %d", got, ReferralBonus)
	}
}

func mustComplete(t *testing.T, svc *Tasks, id int64, kind model.TaskKind) {
	t.Helper()
	out, err := svc.Complete(context.Background(), id, kind)
	if err != nil {
		t.Fatalf("complete %s: %v", kind, err)
	}
	if out != model.CompleteNewlyDone {
		t.Fatalf("complete %s: outcome %v, want CompleteNewlyDone", kind, out)
	}
}
