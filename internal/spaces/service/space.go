package service

import (
	"context"
	"errors"
	"sync"

	spaceerrors "unispace/internal/spaces/errors"
	"unispace/internal/spaces/repository"
	"unispace/internal/spaces/validator"
	"unispace/pkg/config"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/model"
	"unispace/pkg/sanitizer"
)

// SpaceService is the room catalog. Reads are open to any
// authenticated identity; mutations require the manager role.
type SpaceService interface {
	Create(ctx context.Context, identity model.Identity, space *model.Space) error
	GetByID(ctx context.Context, id string) (*model.Space, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error)
	Update(ctx context.Context, identity model.Identity, id string, updates *model.SpaceUpdate) error
	Delete(ctx context.Context, identity model.Identity, id string) error
}

type spaceService struct {
	repo      repository.SpaceRepository
	validator *validator.SpaceValidator
	cfg       *config.Config
}

func NewSpaceService(
	repo repository.SpaceRepository,
	validator *validator.SpaceValidator,
	cfg *config.Config,
) SpaceService {
	return &spaceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *spaceService) Create(ctx context.Context, identity model.Identity, space *model.Space) error {
	if !identity.IsManager() {
		return apperrors.Forbidden("Only space managers can create spaces")
	}

	s.sanitize(space)
	if err := s.validator.Validate(space); err != nil {
		s.cfg.Log.Warn("Space validation failed", "error", err)
		return apperrors.Validation("Space validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, space); err != nil {
		s.cfg.Log.Error("Failed to create space", "error", err)
		return apperrors.Internal("Failed to create space", err)
	}

	s.cfg.Log.Info("Space created successfully",
		"id", space.ID,
		"building", space.Building,
		"room_number", space.RoomNumber,
	)
	return nil
}

func (s *spaceService) GetByID(ctx context.Context, id string) (*model.Space, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Space ID cannot be empty")
	}

	space, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, spaceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Space", id)
		}
		if errors.Is(err, spaceerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid space ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve space", err)
	}

	return space, nil
}

func (s *spaceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error) {
	var count int64
	var spaces []*model.Space
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count spaces", "error", errCount)
			errCount = apperrors.Internal("Failed to count spaces", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		spaces, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list spaces", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve spaces", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return spaces, count, nil
}

func (s *spaceService) Update(ctx context.Context, identity model.Identity, id string, updates *model.SpaceUpdate) error {
	if !identity.IsManager() {
		return apperrors.Forbidden("Only space managers can update spaces")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Space update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Space validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, spaceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Space", id)
		}
		s.cfg.Log.Error("Failed to update space", "id", id, "error", err)
		return apperrors.Internal("Failed to update space", err)
	}

	s.cfg.Log.Info("Space updated successfully", "id", id)
	return nil
}

func (s *spaceService) Delete(ctx context.Context, identity model.Identity, id string) error {
	if !identity.IsManager() {
		return apperrors.Forbidden("Only space managers can delete spaces")
	}
	if id == "" {
		return apperrors.InvalidInput("Space ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, spaceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Space", id)
		}
		if errors.Is(err, spaceerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid space ID format")
		}
		return apperrors.Internal("Failed to delete space", err)
	}

	s.cfg.Log.Info("Space deleted successfully", "id", id)
	return nil
}

func (s *spaceService) sanitize(space *model.Space) {
	space.Name = sanitizer.SanitizeFreeText(space.Name)
	space.Building = sanitizer.SanitizeFreeText(space.Building)
	space.RoomNumber = sanitizer.SanitizeFreeText(space.RoomNumber)
	space.ManagerPhone = sanitizer.SanitizePhone(space.ManagerPhone)
}

func (s *spaceService) mergeUpdates(existing *model.Space, updates *model.SpaceUpdate) *model.Space {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Building != "" {
		merged.Building = updates.Building
	}
	if updates.RoomNumber != "" {
		merged.RoomNumber = updates.RoomNumber
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.ManagerPhone != "" {
		merged.ManagerPhone = updates.ManagerPhone
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	return &merged
}
