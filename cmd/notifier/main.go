package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"unispace/pkg/kafka"
	kafka_config "unispace/pkg/kafka/config"
	kafka_middleware "unispace/pkg/kafka/middleware"
	"unispace/pkg/logger"
	"unispace/pkg/notify"
)

const ServiceName = "notifier"

const consumerGroup = "notifier"

// The notifier is the delivery edge of the reservation pipeline: it
// consumes lifecycle events and hands them to whatever channel reaches
// the reservee. Today that channel is the structured log.
func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.JSON,
		Service: ServiceName,
	})

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		notify.TopicReservationEvents,
		consumerGroup,
		notify.TopicReservationEventsDLQ,
		deliver(log),
	)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Notifier consuming", "topic", notify.TopicReservationEvents, "group", consumerGroup)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped")
}

// deliver decodes the payload and emits the notification. A payload
// that cannot be decoded classifies as permanent and goes straight to
// the DLQ.
func deliver(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload notify.Payload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("decoding notification payload: %w", err)
		}

		log.Info("Reservation notification delivered",
			"event_type", msg.GetEventType(),
			"ref", payload.Ref,
			"space_id", payload.SpaceID,
			"date", payload.Date,
			"start_code", payload.StartCode,
			"end_code", payload.EndCode,
			"status_label", payload.StatusLabel,
			"reservee_type", payload.ReserveeType,
		)
		return nil
	}
}
