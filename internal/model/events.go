package model

import "time"

// Event rows are append-only: once written they are never updated or
// deleted, and all "current state" reads derive from the most recent row.

// HealthEvent records one health observation for an animal.
type HealthEvent struct {
	ID         uint64       // animal_health_events.id
	AnimalID   uint64       // animal_health_events.animal_id
	Status     HealthStatus // animal_health_events.status
	Notes      *string      // animal_health_events.notes (nullable)
	RecordedBy uint64       // animal_health_events.recorded_by
	CreatedAt  time.Time    // animal_health_events.created_at
}

// StatusEvent records one lifecycle transition of an animal.  It duplicates
// the status portion of the generic activity log on purpose: status history
// answers "what were all lifecycle transitions" cheaply, while activity
// history answers "what changed and who changed it" uniformly.
type StatusEvent struct {
	ID         uint64       // animal_status_events.id
	AnimalID   uint64       // animal_status_events.animal_id
	FromStatus AnimalStatus // animal_status_events.from_status
	ToStatus   AnimalStatus // animal_status_events.to_status
	Notes      *string      // animal_status_events.notes (nullable)
	RecordedBy uint64       // animal_status_events.recorded_by
	CreatedAt  time.Time    // animal_status_events.created_at
}

// EventTypeAnimalUpdate is the only activity event type currently emitted.
const EventTypeAnimalUpdate = "animal_update"

// ActivityEvent records one field-level change to an animal: the field name
// and its old/new scalar values as strings.
type ActivityEvent struct {
	ID         uint64    // animal_activity_events.id
	RanchID    uint64    // animal_activity_events.ranch_id
	AnimalID   uint64    // animal_activity_events.animal_id
	EventType  string    // animal_activity_events.event_type
	Field      string    // animal_activity_events.field
	FromValue  *string   // animal_activity_events.from_value (nullable)
	ToValue    *string   // animal_activity_events.to_value (nullable)
	Notes      *string   // animal_activity_events.notes (nullable)
	RecordedBy uint64    // animal_activity_events.recorded_by
	CreatedAt  time.Time // animal_activity_events.created_at
}

// FieldChange is one pending audit entry produced by diffing an animal
// update against the stored row.  Old and New are the scalar values rendered
// as strings ("" for null).
type FieldChange struct {
	Field string
	Old   string
	New   string
}
