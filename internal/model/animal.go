package model

import (
	"strings"
	"time"
)

// Sex of an animal.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Valid reports whether the value is one of the known sexes.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale || s == SexUnknown
}

// AnimalStatus is the lifecycle state of an animal.  Sold and deceased are
// terminal: no transition leaves them.
type AnimalStatus string

const (
	AnimalStatusActive   AnimalStatus = "active"
	AnimalStatusSold     AnimalStatus = "sold"
	AnimalStatusDeceased AnimalStatus = "deceased"
)

// Valid reports whether the value is one of the known statuses.
func (s AnimalStatus) Valid() bool {
	return s == AnimalStatusActive || s == AnimalStatusSold || s == AnimalStatusDeceased
}

// Terminal reports whether the status is an end state.
func (s AnimalStatus) Terminal() bool {
	return s == AnimalStatusSold || s == AnimalStatusDeceased
}

// ValidateStatusChange enforces the status state machine: only
// active -> sold|deceased is permitted, and a transition into a terminal
// state requires a non-empty note because it is an audit-significant event.
// A no-op change (from == to) is allowed and emits nothing.
func ValidateStatusChange(from, to AnimalStatus, notes string) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return ErrInvalidTransition
	}
	if to.Terminal() && strings.TrimSpace(notes) == "" {
		return ErrStatusNoteRequired
	}
	return nil
}

// HealthStatus is the value of a health event.  Any status may follow any
// other; "current health" is always the latest event, defaulting to healthy
// when no event exists.
type HealthStatus string

const (
	HealthStatusHealthy     HealthStatus = "healthy"
	HealthStatusSick        HealthStatus = "sick"
	HealthStatusRecovering  HealthStatus = "recovering"
	HealthStatusQuarantined HealthStatus = "quarantined"
)

// DefaultHealthStatus is reported for animals with no recorded health events.
const DefaultHealthStatus = HealthStatusHealthy

// Valid reports whether the value is one of the known health statuses.
func (s HealthStatus) Valid() bool {
	switch s {
	case HealthStatusHealthy, HealthStatusSick, HealthStatusRecovering, HealthStatusQuarantined:
		return true
	}
	return false
}

// Animal is a per-ranch livestock record.  PublicID is a UUID used only in
// QR/public contexts so internal sequential ids are never exposed.  The tag
// number is unique within a ranch when present; untagged animals are allowed.
type Animal struct {
	ID          uint64       // animals.id
	PublicID    string       // animals.public_id (uuid, unique)
	RanchID     uint64       // animals.ranch_id
	SpeciesID   uint64       // animals.species_id
	TagNumber   *string      // animals.tag_number (nullable, unique per ranch)
	Sex         Sex          // animals.sex
	DateOfBirth *time.Time   // animals.date_of_birth (nullable)
	Status      AnimalStatus // animals.status
	CreatedAt   time.Time    // animals.created_at
	UpdatedAt   time.Time    // animals.updated_at
}
