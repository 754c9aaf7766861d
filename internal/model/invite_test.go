package model

import (
	"errors"
	"testing"
	"time"
)

func pendingInvite(email string, expiresIn time.Duration) Invite {
	return Invite{
		Email:     email,
		Role:      RanchRoleWorker,
		ExpiresAt: time.Now().Add(expiresIn),
	}
}

func TestInviteState(t *testing.T) {
	now := time.Now()

	i := pendingInvite("a@b.com", time.Hour)
	if got := i.State(now); got != InviteStatePending {
		t.Fatalf("expected pending, got %s", got)
	}

	i.ExpiresAt = now.Add(-time.Minute)
	if got := i.State(now); got != InviteStateExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	used := now.Add(-time.Hour)
	i.UsedAt = &used
	if got := i.State(now); got != InviteStateUsed {
		t.Fatalf("used_at must win over expiry, got %s", got)
	}
}

func TestAcceptableBy_EmailCaseInsensitive(t *testing.T) {
	i := pendingInvite("rancher@example.com", time.Hour)
	if err := i.AcceptableBy("Rancher@Example.COM", time.Now()); err != nil {
		t.Fatalf("case-insensitive email match should pass, got %v", err)
	}
}

func TestAcceptableBy_WrongEmail(t *testing.T) {
	i := pendingInvite("rancher@example.com", time.Hour)
	err := i.AcceptableBy("other@example.com", time.Now())
	if !errors.Is(err, ErrInviteWrongEmail) {
		t.Fatalf("expected ErrInviteWrongEmail, got %v", err)
	}
}

func TestAcceptableBy_UsedAndExpired(t *testing.T) {
	i := pendingInvite("rancher@example.com", -time.Minute)
	if err := i.AcceptableBy("rancher@example.com", time.Now()); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}

	used := time.Now()
	i.UsedAt = &used
	if err := i.AcceptableBy("rancher@example.com", time.Now()); !errors.Is(err, ErrInviteUsed) {
		t.Fatalf("expected ErrInviteUsed, got %v", err)
	}
}
