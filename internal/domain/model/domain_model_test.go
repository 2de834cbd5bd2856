package model

import (
	"strings"
	"testing"
	"time"
)

func TestPlaceholderSignature(t *testing.T) {
	a := PlaceholderSignature("01J9ABCDEF")
	b := PlaceholderSignature("01J9ABCDEG")

	if a == b {
		t.Fatal("placeholders for distinct intents must differ")
	}
	if !strings.HasPrefix(a, "pending:") {
		t.Errorf("placeholder should carry the pending prefix, got %q", a)
	}
	// ':' is not in the base58 alphabet, so a placeholder can never equal a
	// real transaction signature.
	if !strings.Contains(a, ":") {
		t.Error("placeholder must contain a non-base58 character")
	}
}

func TestLamportsToSol(t *testing.T) {
	if got := LamportsToSol(1_000_000_000); got != 1.0 {
		t.Errorf("1e9 lamports = %v SOL, want 1", got)
	}
	if got := LamportsToSol(100_000_000); got != 0.1 {
		t.Errorf("1e8 lamports = %v SOL, want 0.1", got)
	}
}

func TestSubscriptionOpen(t *testing.T) {
	now := time.Now()
	s := &Subscription{Status: SubscriptionStatusActive, StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)}
	if !s.Open(now) {
		t.Error("subscription inside its window should be open")
	}
	s.EndsAt = now.Add(-time.Minute)
	if s.Open(now) {
		t.Error("subscription past ends_at should not be open")
	}
	s.EndsAt = now.Add(time.Hour)
	s.Status = SubscriptionStatusExpired
	if s.Open(now) {
		t.Error("expired subscription should not be open")
	}
}
