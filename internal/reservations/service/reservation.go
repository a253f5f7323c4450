package service

import (
	"context"
	"errors"
	"sync"

	"unispace/internal/hourslot"
	reservationerrors "unispace/internal/reservations/errors"
	"unispace/internal/reservations/repository"
	"unispace/internal/reservations/validator"
	"unispace/pkg/config"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/model"
	"unispace/pkg/notify"
	"unispace/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleEngine is the slice of the schedule service the reservation
// flow depends on. Place and Remove accept the caller's context so
// both can join a reservation-held transaction.
type ScheduleEngine interface {
	Place(ctx context.Context, schedule *model.Schedule) error
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	HourCodes(ctx context.Context, scheduleID string) ([]int, error)
	AcquireSlotLock(ctx context.Context, spaceID string, date string) (string, error)
	ReleaseSlotLock(ctx context.Context, lockID string) error
}

type SpaceCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Space, error)
}

type EventRemover interface {
	RemoveBySchedule(ctx context.Context, scheduleID string) error
}

// ReservationSummary is the list projection: display fields only, no
// raw schedule internals.
type ReservationSummary struct {
	ID              string `json:"id"`
	ReservationType string `json:"reservation_type"`
	SpaceName       string `json:"space_name"`
	Date            string `json:"date,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	Status          string `json:"status"`
	StatusLabel     string `json:"status_label"`
}

type ReservationDetail struct {
	model.Reservation
	StatusLabel string `json:"status_label"`
	SpaceName   string `json:"space_name,omitempty"`
	HourCodes   []int  `json:"hour_codes"`
}

type ReservationService interface {
	Create(ctx context.Context, identity model.Identity, reservation *model.Reservation, schedule *model.Schedule) error
	GetDetail(ctx context.Context, identity model.Identity, id string) (*ReservationDetail, error)
	ListMine(ctx context.Context, identity model.Identity, limit int, offset int64) ([]*ReservationSummary, int64, error)
	Review(ctx context.Context, identity model.Identity, id string, review *model.ReservationReview) error
	Delete(ctx context.Context, identity model.Identity, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	schedules ScheduleEngine
	spaces    SpaceCatalog
	events    EventRemover
	validator *validator.ReservationValidator
	notifier  *notify.Notifier
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	schedules ScheduleEngine,
	spaces SpaceCatalog,
	events EventRemover,
	validator *validator.ReservationValidator,
	notifier *notify.Notifier,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		schedules: schedules,
		spaces:    spaces,
		events:    events,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Create books a space: the schedule row and the reservation that owns
// it are written in one transaction under the slot lock, so a conflict
// detected on either side leaves nothing behind.
func (s *reservationService) Create(ctx context.Context, identity model.Identity, reservation *model.Reservation, schedule *model.Schedule) error {
	if err := s.bindReservee(identity, reservation); err != nil {
		return err
	}

	reservation.Status = model.StatusUnderReview
	reservation.ManagerComment = ""
	reservation.SpaceID = schedule.SpaceID
	reservation.Date = schedule.Date
	s.sanitize(reservation)

	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	if err := hourslot.ValidateRange(schedule.StartCode, schedule.EndCode); err != nil {
		return err
	}

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

		reservation.ScheduleID = schedule.ID
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Unique sparse schedule_id index: the schedule is
				// already owned by another reservation.
				return apperrors.Conflict("Requested time range is no longer available")
			}
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "space_id", schedule.SpaceID, "date", schedule.Date, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"schedule_id", reservation.ScheduleID,
		"space_id", reservation.SpaceID,
		"reservee_type", reservation.ReserveeType,
	)
	s.notifier.ReservationCreated(ctx, reservation, schedule)
	return nil
}

// GetDetail returns a reservation with its display projections. Owners
// and managers may read it; any other authenticated identity is
// refused rather than told the reservation does not exist.
func (s *reservationService) GetDetail(ctx context.Context, identity model.Identity, id string) (*ReservationDetail, error) {
	reservation, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.IsManager() && !identity.Owns(reservation.StudentID, reservation.StaffID) {
		return nil, apperrors.Forbidden("You do not have access to this reservation")
	}

	codes, err := s.schedules.HourCodes(ctx, reservation.ScheduleID)
	if err != nil {
		return nil, err
	}

	detail := &ReservationDetail{
		Reservation: *reservation,
		StatusLabel: model.StatusDisplay(reservation.Status),
		HourCodes:   codes,
	}
	if space, spaceErr := s.spaces.GetByID(ctx, reservation.SpaceID); spaceErr == nil {
		detail.SpaceName = space.Name
	}

	return detail, nil
}

func (s *reservationService) ListMine(ctx context.Context, identity model.Identity, limit int, offset int64) ([]*ReservationSummary, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, identity)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.ListByOwner(ctx, identity, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	summaries := make([]*ReservationSummary, 0, len(reservations))
	for _, reservation := range reservations {
		summaries = append(summaries, s.summarize(ctx, reservation))
	}
	return summaries, count, nil
}

// Review records a manager decision and notifies the reservee.
func (s *reservationService) Review(ctx context.Context, identity model.Identity, id string, review *model.ReservationReview) error {
	if !identity.IsManager() {
		return apperrors.Forbidden("Only space managers can review reservations")
	}

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "id", id, "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	reservation, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateReview(ctx, id, review.Status, review.ManagerComment); err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to review reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to review reservation", err)
	}

	reservation.Status = review.Status
	reservation.ManagerComment = review.ManagerComment

	s.cfg.Log.Info("Reservation reviewed",
		"id", id,
		"status", review.Status,
		"manager", identity.SubjectID,
	)

	var schedule *model.Schedule
	if reservation.ScheduleID != "" {
		if sched, schedErr := s.schedules.GetByID(ctx, reservation.ScheduleID); schedErr == nil {
			schedule = sched
		}
	}
	s.notifier.ReservationReviewed(ctx, reservation, schedule)
	return nil
}

// Delete cancels a reservation and cascades: events on the schedule,
// the schedule row and the reservation itself go in one transaction.
// Ownership is part of the lookup, so a reservation held by someone
// else is indistinguishable from a missing one.
func (s *reservationService) Delete(ctx context.Context, identity model.Identity, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	var cancelled *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		reservation, err := s.repo.FindByIDAndOwner(sessCtx, id, identity)
		if err != nil {
			if errors.Is(err, reservationerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			if errors.Is(err, reservationerrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid reservation ID format")
			}
			return apperrors.Internal("Failed to retrieve reservation", err)
		}

		if reservation.ScheduleID != "" {
			if err := s.events.RemoveBySchedule(sessCtx, reservation.ScheduleID); err != nil {
				return err
			}
			if err := s.schedules.Remove(sessCtx, reservation.ScheduleID); err != nil {
				// A dangling schedule reference must not leave the
				// reservation uncancellable.
				if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
					return err
				}
			}
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to delete reservation", err)
		}

		cancelled = reservation
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation cancelled",
		"id", id,
		"schedule_id", cancelled.ScheduleID,
	)
	s.notifier.ReservationCancelled(ctx, cancelled)
	return nil
}

func (s *reservationService) getByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

// bindReservee derives the owner reference from the authenticated
// identity. Client-supplied owner fields are discarded; a reservation
// always belongs to its creator.
func (s *reservationService) bindReservee(identity model.Identity, reservation *model.Reservation) error {
	reservation.StudentID = nil
	reservation.StaffID = nil

	switch {
	case identity.IsStudent():
		reservation.ReserveeType = model.ReserveeStudent
		subject := identity.SubjectID
		reservation.StudentID = &subject
	case identity.IsStaff():
		reservation.ReserveeType = model.ReserveeStaff
		subject := identity.SubjectID
		reservation.StaffID = &subject
	default:
		return apperrors.Forbidden("Managers cannot hold reservations")
	}
	return nil
}

func (s *reservationService) sanitize(reservation *model.Reservation) {
	reservation.Description = sanitizer.SanitizeFreeText(reservation.Description)
	reservation.EventName = sanitizer.SanitizeFreeText(reservation.EventName)
	reservation.OrganizationName = sanitizer.SanitizeFreeText(reservation.OrganizationName)
	reservation.PhoneNumber = sanitizer.SanitizePhone(reservation.PhoneNumber)
}

// summarize builds the list row. Lookups that fail leave their display
// fields blank; listing degrades instead of failing.
func (s *reservationService) summarize(ctx context.Context, reservation *model.Reservation) *ReservationSummary {
	summary := &ReservationSummary{
		ID:              reservation.ID,
		ReservationType: reservation.ReservationType,
		Date:            reservation.Date,
		Status:          reservation.Status,
		StatusLabel:     model.StatusDisplay(reservation.Status),
	}

	if space, err := s.spaces.GetByID(ctx, reservation.SpaceID); err == nil {
		summary.SpaceName = space.Name
	}

	if reservation.ScheduleID == "" {
		return summary
	}
	schedule, err := s.schedules.GetByID(ctx, reservation.ScheduleID)
	if err != nil {
		return summary
	}

	if start, ok := hourslot.Lookup(schedule.StartCode); ok {
		summary.StartTime = start.StartTime
	}
	if end, ok := hourslot.Lookup(schedule.EndCode); ok {
		summary.EndTime = end.EndTime
	}
	return summary
}
