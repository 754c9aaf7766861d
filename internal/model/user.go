package model

import "time"

// User represents a platform-level identity as stored in the `users` table.
// Passwords are only ever stored as bcrypt hashes.  Accounts are soft-deleted
// by setting DeletedAt; authentication rejects both soft-deleted and
// deactivated accounts.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  PlatformRole – global privilege level (user/admin/super_admin).
//  IsActive     – whether the account may authenticate.
//  DeletedAt    – soft-delete marker (null while the account exists).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64       // users.id
	Email        string       // users.email
	PasswordHash string       // users.password_hash
	FirstName    *string      // users.first_name (nullable)
	LastName     *string      // users.last_name (nullable)
	PlatformRole PlatformRole // users.platform_role
	IsActive     bool         // users.is_active
	DeletedAt    *time.Time   // users.deleted_at (nullable)
	CreatedAt    time.Time    // users.created_at
	UpdatedAt    time.Time    // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token is stored.  A rotation chain is kept through
// ReplacedByHash: exchanging a token revokes it and records the hash of its
// successor, so a replayed old token is always already revoked.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owner of the token.
//  TokenHash      – SHA-256 hex digest of the token value.
//  ExpiresAt      – expiration timestamp.
//  RevokedAt      – when the token was revoked (null while active).
//  ReplacedByHash – hash of the successor token (null unless rotated).
//  CreatedAt      – timestamp of creation.
type RefreshToken struct {
	ID             uint64     // refresh_tokens.id
	UserID         uint64     // refresh_tokens.user_id
	TokenHash      string     // refresh_tokens.token_hash
	ExpiresAt      time.Time  // refresh_tokens.expires_at
	RevokedAt      *time.Time // refresh_tokens.revoked_at (nullable)
	ReplacedByHash *string    // refresh_tokens.replaced_by_hash (nullable)
	CreatedAt      time.Time  // refresh_tokens.created_at
}
