package service

import (
	"context"
	"errors"
	"sync"

	eventerrors "unispace/internal/events/errors"
	"unispace/internal/events/repository"
	"unispace/internal/events/validator"
	"unispace/pkg/config"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/model"
	"unispace/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleEngine is the slice of the schedule service the event flow
// depends on.
type ScheduleEngine interface {
	Place(ctx context.Context, schedule *model.Schedule) error
	HourCodes(ctx context.Context, scheduleID string) ([]int, error)
	AcquireSlotLock(ctx context.Context, spaceID string, date string) (string, error)
	ReleaseSlotLock(ctx context.Context, lockID string) error
}

// EventView is the public projection: the organizer appears as a
// display label and the schedule as expanded hour codes.
type EventView struct {
	model.Event
	Organizer string `json:"organizer"`
	HourCodes []int  `json:"hour_codes"`
}

type EventService interface {
	Create(ctx context.Context, identity model.Identity, event *model.Event, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*EventView, error)
	List(ctx context.Context, limit int, offset int64) ([]*EventView, int64, error)
	Delete(ctx context.Context, identity model.Identity, id string) error
	RemoveBySchedule(ctx context.Context, scheduleID string) error
}

type eventService struct {
	repo      repository.EventRepository
	schedules ScheduleEngine
	validator *validator.EventValidator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	schedules ScheduleEngine,
	validator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		schedules: schedules,
		validator: validator,
		cfg:       cfg,
	}
}

// Create publishes an event. When a time range is requested the
// schedule and the event are written in one transaction under the slot
// lock; without one the event is a dateless announcement.
func (s *eventService) Create(ctx context.Context, identity model.Identity, event *model.Event, schedule *model.Schedule) error {
	if err := s.bindOrganizer(identity, event); err != nil {
		return err
	}

	event.ScheduleID = nil
	s.sanitize(event)

	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return apperrors.Validation("Event validation failed", map[string]any{"error": err.Error()})
	}

	if schedule == nil {
		if err := s.repo.Create(ctx, event); err != nil {
			s.cfg.Log.Error("Failed to create event", "error", err)
			return apperrors.Internal("Failed to create event", err)
		}
		s.cfg.Log.Info("Event created successfully", "id", event.ID, "title", event.Title)
		return nil
	}

	schedule.SpaceID = event.SpaceID

	lockID, err := s.schedules.AcquireSlotLock(ctx, schedule.SpaceID, schedule.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.schedules.ReleaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.schedules.Place(sessCtx, schedule); err != nil {
			return err
		}

		scheduleID := schedule.ID
		event.ScheduleID = &scheduleID
		if err := s.repo.Create(sessCtx, event); err != nil {
			return apperrors.Internal("Failed to create event", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create event", "space_id", schedule.SpaceID, "date", schedule.Date, "error", err)
		return err
	}

	s.cfg.Log.Info("Event created successfully",
		"id", event.ID,
		"title", event.Title,
		"schedule_id", schedule.ID,
	)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*EventView, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve event", err)
	}

	return s.view(ctx, event)
}

// List pages through published events, newest first. An empty page is
// reported as not found.
func (s *eventService) List(ctx context.Context, limit int, offset int64) ([]*EventView, int64, error) {
	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count events", "error", errCount)
			errCount = apperrors.Internal("Failed to count events", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		events, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list events", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve events", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if len(events) == 0 {
		return nil, 0, apperrors.NotFound("Events")
	}

	views := make([]*EventView, 0, len(events))
	for _, event := range events {
		view, err := s.view(ctx, event)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, count, nil
}

// Delete removes the event only; the schedule it occupied stays with
// the reservation that owns it. Organizers and managers may delete.
func (s *eventService) Delete(ctx context.Context, identity model.Identity, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid event ID format")
		}
		return apperrors.Internal("Failed to retrieve event", err)
	}

	if !identity.IsManager() && !identity.Owns(event.StudentID, event.StaffID) {
		return apperrors.Forbidden("Only the organizer or a manager can delete this event")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete event", "id", id, "error", err)
		return apperrors.Internal("Failed to delete event", err)
	}

	s.cfg.Log.Info("Event deleted", "id", id)
	return nil
}

// RemoveBySchedule clears every event occupying the schedule. It runs
// in the caller's context so a cascade transaction can include it.
func (s *eventService) RemoveBySchedule(ctx context.Context, scheduleID string) error {
	deleted, err := s.repo.DeleteBySchedule(ctx, scheduleID)
	if err != nil {
		return apperrors.Internal("Failed to delete events for schedule", err)
	}
	if deleted > 0 {
		s.cfg.Log.Info("Events removed with schedule", "schedule_id", scheduleID, "count", deleted)
	}
	return nil
}

// bindOrganizer derives the owning reference from the authenticated
// identity, discarding client-supplied owner fields.
func (s *eventService) bindOrganizer(identity model.Identity, event *model.Event) error {
	event.StudentID = nil
	event.StaffID = nil

	switch {
	case identity.IsStudent():
		event.OrganizerType = model.ReserveeStudent
		subject := identity.SubjectID
		event.StudentID = &subject
	case identity.IsStaff():
		event.OrganizerType = model.ReserveeStaff
		subject := identity.SubjectID
		event.StaffID = &subject
	default:
		return apperrors.Forbidden("Managers cannot organize events")
	}
	return nil
}

func (s *eventService) sanitize(event *model.Event) {
	event.Title = sanitizer.SanitizeFreeText(event.Title)
	event.Description = sanitizer.SanitizeFreeText(event.Description)
	event.PosterRef = sanitizer.SanitizeFreeText(event.PosterRef)
}

func (s *eventService) view(ctx context.Context, event *model.Event) (*EventView, error) {
	view := &EventView{
		Event:     *event,
		Organizer: event.OrganizerDisplay(),
		HourCodes: []int{},
	}

	if event.ScheduleID != nil {
		codes, err := s.schedules.HourCodes(ctx, *event.ScheduleID)
		if err != nil {
			return nil, err
		}
		view.HourCodes = codes
	}
	return view, nil
}
