// Package service hosts side-effect orchestration shared by handlers.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/queue"
	"github.com/smartruga/livestock-api/internal/repository"
)

// AlertService persists raised alerts and mirrors them onto the message
// broker.  Raising an alert is a side effect of a domain mutation that has
// already succeeded, so failures here are logged and swallowed rather than
// surfaced to the client.
type AlertService struct {
	Alerts *repository.AlertRepo
}

func NewAlertService(a *repository.AlertRepo) *AlertService {
	return &AlertService{Alerts: a}
}

// AnimalRef carries the public handle of the animal an alert points at.
type AnimalRef struct {
	ID        uint64
	PublicID  string
	TagNumber string
}

// Raise writes a ranch alert row and publishes the matching event.
func (s *AlertService) Raise(ctx context.Context, ranch model.Ranch, animal AnimalRef, alertType model.AlertType, message string) {
	alert := model.RanchAlert{
		RanchID:   ranch.ID,
		AnimalID:  &animal.ID,
		AlertType: alertType,
		Message:   message,
	}
	if err := s.Alerts.Create(ctx, &alert); err != nil {
		logs.Logger.WithError(err).Error("alert create failed")
		return
	}

	ev := queue.AlertRaisedEvent{
		AlertID:         alert.ID,
		RanchID:         ranch.ID,
		RanchSlug:       ranch.Slug,
		AnimalID:        alert.AnimalID,
		AnimalPublicID:  animal.PublicID,
		AnimalTagNumber: animal.TagNumber,
		AlertType:       string(alertType),
		Message:         message,
		RaisedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := publishAlertRaised(ctx, ev); err != nil {
		logs.Logger.WithError(err).Warn("alert publish failed")
	}
}

// publishAlertRaised publishes an AlertRaisedEvent to the alert.raised
// queue.  Messages are persistent; the queue declare is idempotent.
func publishAlertRaised(ctx context.Context, event queue.AlertRaisedEvent) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.AlertQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", queue.AlertQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
