package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unispace/internal/hourslot"
	scheduleerrors "unispace/internal/schedules/errors"
	"unispace/internal/schedules/repository"
	"unispace/internal/schedules/validator"
	"unispace/pkg/config"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleService owns the conflict-detection engine. Create wraps
// Place in its own lock and transaction; Place alone serves callers
// that bind a schedule and an owning row in one caller-held
// transaction.
type ScheduleService interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	Place(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	GetBySpaceAndDate(ctx context.Context, spaceID string, date string) ([]*model.Schedule, error)
	Update(ctx context.Context, identity model.Identity, id string, updates *model.ScheduleUpdate) error
	Remove(ctx context.Context, id string) error
	IsLocked(ctx context.Context, spaceID string, date string, startCode, endCode int, excludeID string) (bool, error)
	HourCodes(ctx context.Context, scheduleID string) ([]int, error)
	AcquireSlotLock(ctx context.Context, spaceID string, date string) (string, error)
	ReleaseSlotLock(ctx context.Context, lockID string) error
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	lockRepo  repository.SlotLockRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	lockRepo repository.SlotLockRepository,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *scheduleService) Create(ctx context.Context, schedule *model.Schedule) error {
	if err := s.validate(schedule); err != nil {
		return err
	}

	lockID, err := s.AcquireSlotLock(ctx, schedule.SpaceID, schedule.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.ReleaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.Place(sessCtx, schedule)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create schedule", "error", err)
		return err
	}

	s.cfg.Log.Info("Schedule created successfully",
		"id", schedule.ID,
		"space_id", schedule.SpaceID,
		"date", schedule.Date,
		"start_code", schedule.StartCode,
		"end_code", schedule.EndCode,
	)
	return nil
}

// Place validates the hour-code range, scans siblings for an inclusive
// overlap and inserts. The caller supplies the context; inside a
// session transaction the insert joins the caller's transaction so
// validation and persistence commit or abort together.
func (s *scheduleService) Place(ctx context.Context, schedule *model.Schedule) error {
	if err := s.validate(schedule); err != nil {
		return err
	}

	if err := s.verifyNoOverlap(ctx, schedule); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Unique (space_id, date, start_code) index: a sibling won
			// the race between the scan and the insert.
			return apperrors.Conflict("Requested time range is no longer available")
		}
		return apperrors.Internal("Failed to create schedule", err)
	}

	return nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve schedule", err)
	}

	return schedule, nil
}

func (s *scheduleService) GetBySpaceAndDate(ctx context.Context, spaceID string, date string) ([]*model.Schedule, error) {
	if spaceID == "" || date == "" {
		return nil, apperrors.InvalidInput("Space ID and date are required")
	}

	schedules, err := s.repo.FindBySpaceAndDate(ctx, spaceID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list schedules", "space_id", spaceID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve schedules", err)
	}

	return schedules, nil
}

// Update re-times a schedule and re-runs the full sibling scan with
// the schedule's own ID excluded, so an in-place move never conflicts
// with itself. Manager-only: a schedule belongs to the reservation or
// event bound to it, and those rows never expose re-timing to owners.
func (s *scheduleService) Update(ctx context.Context, identity model.Identity, id string, updates *model.ScheduleUpdate) error {
	if !identity.IsManager() {
		return apperrors.Forbidden("Only space managers can re-time schedules")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Schedule update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.StartCode != nil {
		merged.StartCode = *updates.StartCode
	}
	if updates.EndCode != nil {
		merged.EndCode = *updates.EndCode
	}

	if err := s.validate(&merged); err != nil {
		return err
	}

	lockID, err := s.AcquireSlotLock(ctx, merged.SpaceID, merged.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.ReleaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, &merged); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged.StartCode, merged.EndCode); err != nil {
			return apperrors.Internal("Failed to update schedule", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update schedule", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Schedule updated successfully",
		"id", id,
		"start_code", merged.StartCode,
		"end_code", merged.EndCode,
	)
	return nil
}

// Remove deletes a schedule row. It runs in the caller's context so a
// cascade transaction can include it.
func (s *scheduleService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Schedule", id)
		}
		if errors.Is(err, scheduleerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to delete schedule", err)
	}
	return nil
}

// IsLocked is the read-only availability probe. It reports whether the
// range collides with a sibling but never raises a conflict error.
func (s *scheduleService) IsLocked(ctx context.Context, spaceID string, date string, startCode, endCode int, excludeID string) (bool, error) {
	if err := hourslot.ValidateRange(startCode, endCode); err != nil {
		return false, err
	}

	siblings, err := s.repo.FindBySpaceAndDate(ctx, spaceID, date)
	if err != nil {
		return false, apperrors.Internal("Failed to check availability", err)
	}

	probe := &model.Schedule{StartCode: startCode, EndCode: endCode}
	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		if probe.Overlaps(sibling) {
			return true, nil
		}
	}

	return false, nil
}

// HourCodes expands a schedule's inclusive range into the individual
// codes it occupies. A missing schedule yields an empty list, never an
// error; detail views degrade instead of failing.
func (s *scheduleService) HourCodes(ctx context.Context, scheduleID string) ([]int, error) {
	if scheduleID == "" {
		return []int{}, nil
	}

	schedule, err := s.repo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, scheduleerrors.ErrNotFound) || errors.Is(err, scheduleerrors.ErrInvalidID) {
			return []int{}, nil
		}
		return nil, apperrors.Internal("Failed to expand schedule hours", err)
	}

	codes := hourslot.Expand(schedule.StartCode, schedule.EndCode)
	if codes == nil {
		return []int{}, nil
	}
	return codes, nil
}

// AcquireSlotLock serializes validate-then-insert for one (space,
// date) booking group. Contention maps to Conflict so the caller can
// retry.
func (s *scheduleService) AcquireSlotLock(ctx context.Context, spaceID string, date string) (string, error) {
	lockID := fmt.Sprintf("schedule_lock_%s_%s", spaceID, date)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *scheduleService) ReleaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *scheduleService) validate(schedule *model.Schedule) error {
	if err := s.validator.Validate(schedule); err != nil {
		s.cfg.Log.Warn("Schedule validation failed", "error", err)
		return apperrors.Validation("Schedule validation failed", map[string]any{"error": err.Error()})
	}
	return hourslot.ValidateRange(schedule.StartCode, schedule.EndCode)
}

func (s *scheduleService) verifyNoOverlap(ctx context.Context, schedule *model.Schedule) error {
	siblings, err := s.repo.FindBySpaceAndDate(ctx, schedule.SpaceID, schedule.Date)
	if err != nil {
		return apperrors.Internal("Failed to check existing schedules", err)
	}

	for _, sibling := range siblings {
		if sibling.ID != "" && sibling.ID == schedule.ID {
			continue
		}
		if schedule.Overlaps(sibling) {
			return apperrors.Conflict(fmt.Sprintf(
				"Requested hours [%d, %d] overlap an existing schedule [%d, %d]",
				schedule.StartCode, schedule.EndCode,
				sibling.StartCode, sibling.EndCode,
			))
		}
	}
	return nil
}
