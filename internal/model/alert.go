package model

import "time"

// AlertType classifies why a ranch alert was raised.
type AlertType string

const (
	AlertHealthSick        AlertType = "health_sick"
	AlertHealthQuarantined AlertType = "health_quarantined"
	AlertStatusSold        AlertType = "status_sold"
	AlertStatusDeceased    AlertType = "status_deceased"
)

// Valid reports whether the value is one of the known alert types.
func (t AlertType) Valid() bool {
	switch t {
	case AlertHealthSick, AlertHealthQuarantined, AlertStatusSold, AlertStatusDeceased:
		return true
	}
	return false
}

// AlertTypeForHealth returns the alert type raised by a health event, or
// false when the status is not alert-worthy.
func AlertTypeForHealth(s HealthStatus) (AlertType, bool) {
	switch s {
	case HealthStatusSick:
		return AlertHealthSick, true
	case HealthStatusQuarantined:
		return AlertHealthQuarantined, true
	}
	return "", false
}

// AlertTypeForStatus returns the alert type raised by a status transition,
// or false when the new status is not alert-worthy.
func AlertTypeForStatus(s AnimalStatus) (AlertType, bool) {
	switch s {
	case AnimalStatusSold:
		return AlertStatusSold, true
	case AnimalStatusDeceased:
		return AlertStatusDeceased, true
	}
	return "", false
}

// RanchAlert is a derived, dismissible notification.  Only the is_read flag
// is ever mutated after creation.
type RanchAlert struct {
	ID        uint64    // ranch_alerts.id
	RanchID   uint64    // ranch_alerts.ranch_id
	AnimalID  *uint64   // ranch_alerts.animal_id (nullable)
	AlertType AlertType // ranch_alerts.alert_type
	Message   string    // ranch_alerts.message
	IsRead    bool      // ranch_alerts.is_read
	CreatedAt time.Time // ranch_alerts.created_at
}
