// Package queue defines message payloads exchanged over the message broker
// and the background consumer for raised alerts.
package queue

// AlertQueueName is the durable queue carrying raised ranch alerts.
const AlertQueueName = "alert.raised"

// AlertRaisedEvent is published whenever a domain mutation raises a ranch
// alert.  It carries enough context for downstream consumers to log or
// notify without querying the primary database.
type AlertRaisedEvent struct {
	AlertID         uint64  `json:"alert_id"`
	RanchID         uint64  `json:"ranch_id"`
	RanchSlug       string  `json:"ranch_slug"`
	AnimalID        *uint64 `json:"animal_id"`
	AnimalPublicID  string  `json:"animal_public_id,omitempty"`
	AnimalTagNumber string  `json:"animal_tag_number,omitempty"`
	AlertType       string  `json:"alert_type"`
	Message         string  `json:"message"`
	RaisedAt        string  `json:"raised_at"`
}
