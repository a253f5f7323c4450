package main

import (
	eventhandler "unispace/internal/events/handler"
	eventrepository "unispace/internal/events/repository"
	eventservice "unispace/internal/events/service"
	eventvalidator "unispace/internal/events/validator"
	reservationhandler "unispace/internal/reservations/handler"
	reservationrepository "unispace/internal/reservations/repository"
	reservationservice "unispace/internal/reservations/service"
	reservationvalidator "unispace/internal/reservations/validator"
	schedulehandler "unispace/internal/schedules/handler"
	schedulerepository "unispace/internal/schedules/repository"
	scheduleservice "unispace/internal/schedules/service"
	schedulevalidator "unispace/internal/schedules/validator"
	spacehandler "unispace/internal/spaces/handler"
	spacerepository "unispace/internal/spaces/repository"
	spaceservice "unispace/internal/spaces/service"
	spacevalidator "unispace/internal/spaces/validator"
	"unispace/pkg/app"
	"unispace/pkg/config"
	"unispace/pkg/kafka"
	kafka_config "unispace/pkg/kafka/config"
	kafka_middleware "unispace/pkg/kafka/middleware"
	"unispace/pkg/notify"
	"unispace/pkg/sealer"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Unispace API service")

	scheduleService := initScheduleService(cfg)
	spaceService := initSpaceService(cfg)
	eventService := initEventService(cfg, scheduleService)
	reservationService := initReservationService(cfg, scheduleService, spaceService, eventService)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		spacehandler.NewSpaceHandler(spaceService, cfg.Log),
		schedulehandler.NewScheduleHandler(scheduleService, cfg.Log),
		reservationhandler.NewReservationHandler(reservationService, cfg.Log),
		eventhandler.NewEventHandler(eventService, cfg.Log),
	)
	serverApp.Run()

	cfg.GracefulShutdown()
}

func initScheduleService(cfg *config.Config) scheduleservice.ScheduleService {
	svc := scheduleservice.NewScheduleService(
		schedulerepository.NewMongoScheduleRepository(cfg),
		schedulerepository.NewSlotLockRepository(cfg),
		schedulevalidator.NewScheduleValidator(cfg.Log),
		cfg,
	)
	cfg.Log.Info("Schedule service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initSpaceService(cfg *config.Config) spaceservice.SpaceService {
	svc := spaceservice.NewSpaceService(
		spacerepository.NewMongoSpaceRepository(cfg),
		spacevalidator.NewSpaceValidator(cfg.Log),
		cfg,
	)
	cfg.Log.Info("Space service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initEventService(cfg *config.Config, schedules scheduleservice.ScheduleService) eventservice.EventService {
	svc := eventservice.NewEventService(
		eventrepository.NewMongoEventRepository(cfg),
		schedules,
		eventvalidator.NewEventValidator(cfg.Log),
		cfg,
	)
	cfg.Log.Info("Event service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initReservationService(
	cfg *config.Config,
	schedules scheduleservice.ScheduleService,
	spaces spaceservice.SpaceService,
	events eventservice.EventService,
) reservationservice.ReservationService {
	svc := reservationservice.NewReservationService(
		reservationrepository.NewMongoReservationRepository(cfg),
		schedules,
		spaces,
		events,
		reservationvalidator.NewReservationValidator(cfg.Log),
		initNotifier(cfg),
		cfg,
	)
	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

// initNotifier wires the Kafka producer behind the notifier. The API
// runs without notifications when the broker is not configured; a nil
// notifier is a no-op.
func initNotifier(cfg *config.Config) *notify.Notifier {
	s, err := sealer.New(cfg.SealerKey)
	if err != nil {
		cfg.Log.Fatal("Invalid sealer key", "error", err)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Kafka disabled, reservation notifications will not be published", "error", err)
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, notify.TopicReservationEvents, notify.TopicReservationEventsDLQ)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, reservation notifications will not be published", "error", err)
		return nil
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Reservation notifier initialized", "topic", notify.TopicReservationEvents)
	return notify.New(producer, s, ServiceName, cfg.Log)
}
