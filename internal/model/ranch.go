package model

import "time"

// Ranch is a tenant workspace.  The slug is URL-safe, derived from the name
// with a numeric suffix when the base slug is taken, and is the handle used
// in all ranch-scoped routes.  The creator reference is immutable.
type Ranch struct {
	ID           uint64    // ranches.id
	Name         string    // ranches.name
	Slug         string    // ranches.slug (unique)
	CreatedBy    uint64    // ranches.created_by
	LocationName *string   // ranches.location_name (nullable)
	Address      *string   // ranches.address (nullable)
	Latitude     *float64  // ranches.latitude (nullable)
	Longitude    *float64  // ranches.longitude (nullable)
	CreatedAt    time.Time // ranches.created_at
	UpdatedAt    time.Time // ranches.updated_at
}

// RanchMember joins a user to a ranch with a role and activation status.
// At most one membership row exists per (ranch, user) pair; invites upsert
// it to pending, acceptance flips it to active.
type RanchMember struct {
	ID        uint64       // ranch_members.id
	RanchID   uint64       // ranch_members.ranch_id
	UserID    uint64       // ranch_members.user_id
	Role      RanchRole    // ranch_members.role
	Status    MemberStatus // ranch_members.status
	CreatedAt time.Time    // ranch_members.created_at
	UpdatedAt time.Time    // ranch_members.updated_at
}

// Species is a read-only catalog row referenced by animals.
type Species struct {
	ID   uint64 // species.id
	Name string // species.name
	Code string // species.code (unique short identifier)
}
