// Package model holds the row structs mirrored from the database schema and
// the pure guard logic of the domain: role predicates, the animal status
// state machine, and invite state derivation.  Sentinel errors defined here
// are business-rule violations; storage-level sentinels live in the
// repository package.
package model

import "errors"

// Platform-role escalation guard violations.
var (
	ErrTargetSuperAdmin = errors.New("cannot modify a super_admin")
	ErrSuperAdminGrant  = errors.New("only super_admin can assign super_admin")
	ErrAdminPeer        = errors.New("admins cannot change other admins")
)

// Animal status state-machine violations.
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStatusNoteRequired = errors.New("status notes required for this transition")
)

// Invite acceptance guard violations.
var (
	ErrInviteUsed       = errors.New("invite already used")
	ErrInviteExpired    = errors.New("invite expired")
	ErrInviteWrongEmail = errors.New("invite not meant for this account")
)
