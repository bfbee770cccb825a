package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/graphenelabs/graphbot/internal/model"
)

func TestDeriveReferralCode(t *testing.T) {
	cases := []struct {
		id   int64
		want string
	}{
		{123456789, "GRAPH123456"},
		{123456, "GRAPH123456"},
		{42, "GRAPH42"},
		{7, "GRAPH7"},
	}
	for _, tc := range cases {
		if got := DeriveReferralCode(tc.id); got != tc.want {
			t.Errorf("DeriveReferralCode(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestDeriveReferralCodeDeterministic(t *testing.T) {
	if DeriveReferralCode(987654321) != DeriveReferralCode(987654321) {
		t.Fatal("referral code must be stable for an identity")
	}
}

func TestEnsureRegisteredIdempotent(t *testing.T) {
	store := newFakeUsers()
	svc := NewUsers(store)
	ctx := context.Background()

	first, err := svc.EnsureRegistered(ctx, 111222333, Profile{Username: "alice"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if first.Balance != 0 {
		t.Errorf("new user balance = %d, want 0", first.Balance)
	}
	if first.AirdropClaimed {
		t.Error("new user must not have airdrop_claimed")
	}
	if !strings.HasPrefix(first.ReferralCode, "GRAPH") {
		t.Errorf("referral code %q lacks GRAPH prefix", first.ReferralCode)
	}

	second, err := svc.EnsureRegistered(ctx, 111222333, Profile{Username: "alice2"})
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.ReferralCode != first.ReferralCode {
		t.Errorf("referral code changed on re-register: %q -> %q", first.ReferralCode, second.ReferralCode)
	}
	if second.Username == nil || *second.Username != "alice" {
		t.Error("existing row must be returned unchanged")
	}
}

func TestEnsureRegisteredConcurrent(t *testing.T) {
	store := newFakeUsers()
	svc := NewUsers(store)
	ctx := context.Background()

	const n = 32
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := svc.EnsureRegistered(ctx, 111222333, Profile{Username: "alice"})
			if err != nil {
				t.Error(err)
				return
			}
			codes <- u.ReferralCode
		}()
	}
	wg.Wait()
	close(codes)

	if store.count() != 1 {
		t.Fatalf("%d rows after %d concurrent registrations, want 1", store.count(), n)
	}
	for code := range codes {
		if code != "GRAPH111222" {
			t.Fatalf("referral code %q diverged under concurrency", code)
		}
	}
}

func TestValidWalletAddress(t *testing.T) {
	cases := []struct {
		addr string
		ok   bool
	}{
		{"sol" + strings.Repeat("A", 29), true},  // exactly 32
		{"sol" + strings.Repeat("A", 28), false}, // 31, one short
		{"sol" + strings.Repeat("A", 40), true},
		{"abc" + strings.Repeat("A", 40), false}, // wrong prefix
		{"", false},
		{"sol", false},
	}
	for _, tc := range cases {
		if got := ValidWalletAddress(tc.addr); got != tc.ok {
			t.Errorf("ValidWalletAddress(%q) = %v, want %v", tc.addr, got, tc.ok)
		}
	}
}

func TestSetWallet(t *testing.T) {
	store := newFakeUsers()
	svc := NewUsers(store)
	ctx := context.Background()

	if _, err := svc.EnsureRegistered(ctx, 5, Profile{}); err != nil {
		t.Fatal(err)
	}

	if err := svc.SetWallet(ctx, 5, "sol"+strings.Repeat("B", 28)); !errors.Is(err, model.ErrInvalidWallet) {
		t.Fatalf("short address: err = %v, want ErrInvalidWallet", err)
	}
	u, _ := svc.Get(ctx, 5)
	if u.HasWallet() {
		t.Fatal("rejected address must not be stored")
	}

	valid := "sol" + strings.Repeat("B", 29)
	if err := svc.SetWallet(ctx, 5, valid); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
	u, _ = svc.Get(ctx, 5)
	if !u.HasWallet() || *u.WalletAddress != valid {
		t.Fatal("valid address must be stored verbatim")
	}
}
