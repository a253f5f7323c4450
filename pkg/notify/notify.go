// Package notify publishes reservation lifecycle notifications. Each
// payload carries an opaque reference token instead of raw ids so
// consumers outside the service cannot address the database directly.
package notify

import (
	"context"

	"unispace/pkg/kafka"
	"unispace/pkg/logger"
	"unispace/pkg/model"
	"unispace/pkg/sealer"
)

const (
	TopicReservationEvents    = "reservation-events"
	TopicReservationEventsDLQ = "reservation-events-dlq"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationReviewed  = "reservation.reviewed"
	EventReservationCancelled = "reservation.cancelled"
)

const schemaVersion = "1"

// Payload is the JSON body of every reservation notification.
type Payload struct {
	Ref          string `json:"ref"`
	SpaceID      string `json:"space_id"`
	Date         string `json:"date,omitempty"`
	StartCode    int    `json:"start_code,omitempty"`
	EndCode      int    `json:"end_code,omitempty"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	ReserveeType string `json:"reservee_type"`
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Notifier seals reservation references and publishes lifecycle
// events. Publish failures are logged and swallowed: notification
// delivery never rolls back a committed booking.
type Notifier struct {
	producer Publisher
	sealer   *sealer.Sealer
	source   string
	log      *logger.Logger
}

func New(producer Publisher, s *sealer.Sealer, source string, log *logger.Logger) *Notifier {
	return &Notifier{
		producer: producer,
		sealer:   s,
		source:   source,
		log:      log,
	}
}

func (n *Notifier) ReservationCreated(ctx context.Context, reservation *model.Reservation, schedule *model.Schedule) {
	n.publish(ctx, EventReservationCreated, reservation, schedule)
}

func (n *Notifier) ReservationReviewed(ctx context.Context, reservation *model.Reservation, schedule *model.Schedule) {
	n.publish(ctx, EventReservationReviewed, reservation, schedule)
}

func (n *Notifier) ReservationCancelled(ctx context.Context, reservation *model.Reservation) {
	n.publish(ctx, EventReservationCancelled, reservation, nil)
}

func (n *Notifier) publish(ctx context.Context, eventType string, reservation *model.Reservation, schedule *model.Schedule) {
	if n == nil || n.producer == nil {
		return
	}

	ref, err := n.sealer.CreateOpaqueToken(reservation.ID, reservation.ScheduleID)
	if err != nil {
		n.log.Error("Failed to seal reservation reference",
			"reservation_id", reservation.ID,
			"event_type", eventType,
			"error", err,
		)
		return
	}

	payload := Payload{
		Ref:          ref,
		SpaceID:      reservation.SpaceID,
		Status:       reservation.Status,
		StatusLabel:  model.StatusDisplay(reservation.Status),
		ReserveeType: reservation.ReserveeType,
	}
	if schedule != nil {
		payload.Date = schedule.Date
		payload.StartCode = schedule.StartCode
		payload.EndCode = schedule.EndCode
	}

	msg := kafka.NewMessage().
		WithKey(reservation.ID).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(n.source).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish reservation notification",
			"reservation_id", reservation.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}
