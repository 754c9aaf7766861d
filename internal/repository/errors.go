// Package repository implements data access over database/sql.  Sentinel
// errors defined here let handlers distinguish failure scenarios and map
// them to transport status codes without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced entity does not exist or lies
// outside the caller's ranch.  The two cases are deliberately conflated so
// responses never leak the existence of other tenants' data.
var ErrNotFound = errors.New("not found")

// ErrConflict signals a uniqueness or business-rule collision.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email already in use.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateTag is returned when an animal tag number is already taken
// within the same ranch.
var ErrDuplicateTag = errors.New("tag number already exists in this ranch")

// ErrInviteExists is returned when an unused invite already exists for the
// same (ranch, email) pair.
var ErrInviteExists = errors.New("invite already exists for this email")

// ErrTokenRevoked is returned when a refresh token has already been spent
// or explicitly revoked.
var ErrTokenRevoked = errors.New("refresh token revoked")

// ErrTokenExpired is returned when a refresh token is past its expiry.
var ErrTokenExpired = errors.New("refresh token expired")

// isDuplicateKey reports whether the driver error is a MySQL 1062
// duplicate-entry violation.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
