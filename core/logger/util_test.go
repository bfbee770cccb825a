package logger

import (
	"testing"
	"time"
)

func TestSummarizeStrings(t *testing.T) {
	cases := []struct {
		name      string
		values    []string
		limit     int
		want      string
		truncated bool
	}{
		{"fits", []string{"a", "b"}, 3, "a, b", false},
		{"truncates", []string{"a", "b", "c", "d"}, 2, "a, b", true},
		{"zero limit", []string{"a"}, 0, "", true},
		{"empty", nil, 5, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, truncated := SummarizeStrings(tc.values, tc.limit)
			if got != tc.want || truncated != tc.truncated {
				t.Fatalf("SummarizeStrings(%v, %d) = (%q, %v), want (%q, %v)",
					tc.values, tc.limit, got, truncated, tc.want, tc.truncated)
			}
		})
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("negative duration = %v, want 0", got)
	}
	if got := RoundMS(1499 * time.Microsecond); got != time.Millisecond {
		t.Fatalf("1499us = %v, want 1ms", got)
	}
}

func TestSanitizeLimitStripsControlRunes(t *testing.T) {
	in := "ab\x00c\td\ne\x7f"
	if got := SanitizeLimit(in, 100); got != "abc\td\ne" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("привет", 3); got != "при" {
		t.Fatalf("rune cap = %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Fatalf("zero cap = %q", got)
	}
}

func TestRatioSamplerWindow(t *testing.T) {
	s := newRatioSampler(2, 5)
	var passed int
	for i := 0; i < 10; i++ {
		if s.Allow() {
			passed++
		}
	}
	if passed != 4 {
		t.Fatalf("passed %d of 10, want 4", passed)
	}

	s.Set(0, 0)
	for i := 0; i < 3; i++ {
		if !s.Allow() {
			t.Fatal("disabled sampler must pass everything")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := []struct {
		spec     string
		num, den int
	}{
		{"1/50", 1, 50},
		{" 2 / 10 ", 2, 10},
		{"25", 1, 25},
		{"", 0, 0},
		{"x/y", 0, 0},
		{"-3", 0, 0},
	}
	for _, tc := range cases {
		num, den := parseRatioSpec(tc.spec)
		if num != tc.num || den != tc.den {
			t.Fatalf("parseRatioSpec(%q) = (%d, %d), want (%d, %d)",
				tc.spec, num, den, tc.num, tc.den)
		}
	}
}
