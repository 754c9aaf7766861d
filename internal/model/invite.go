package model

import (
	"strings"
	"time"
)

// InviteState is the derived lifecycle state of an invite.  Accepted and
// revoked invites look identical at the storage layer (used_at set); expiry
// is passive and never written back.
type InviteState string

const (
	InviteStatePending InviteState = "pending"
	InviteStateUsed    InviteState = "used"
	InviteStateExpired InviteState = "expired"
)

// Invite is a single-use, time-boxed credential granting a ranch role upon
// acceptance.  Only the SHA-256 hash of the bearer token is persisted, so a
// database read alone never discloses a usable credential.
type Invite struct {
	ID        uint64     // invites.id
	RanchID   uint64     // invites.ranch_id
	Email     string     // invites.email (lower-cased target address)
	Role      RanchRole  // invites.role
	TokenHash string     // invites.token_hash
	ExpiresAt time.Time  // invites.expires_at
	CreatedBy uint64     // invites.created_by
	UsedAt    *time.Time // invites.used_at (null while pending)
	CreatedAt time.Time  // invites.created_at
}

// State derives the lifecycle state at the given instant.
func (i Invite) State(now time.Time) InviteState {
	if i.UsedAt != nil {
		return InviteStateUsed
	}
	if now.After(i.ExpiresAt) {
		return InviteStateExpired
	}
	return InviteStatePending
}

// AcceptableBy checks every acceptance guard except the hash lookup itself:
// the invite must be unused, unexpired, and addressed to the caller's email
// (case-insensitive).
func (i Invite) AcceptableBy(email string, now time.Time) error {
	switch i.State(now) {
	case InviteStateUsed:
		return ErrInviteUsed
	case InviteStateExpired:
		return ErrInviteExpired
	}
	if !strings.EqualFold(strings.TrimSpace(email), i.Email) {
		return ErrInviteWrongEmail
	}
	return nil
}
