package service

import (
	"context"
	"testing"

	spaceerrors "unispace/internal/spaces/errors"
	"unispace/internal/spaces/repository"
	"unispace/internal/spaces/validator"
	"unispace/pkg/config"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/logger"
	"unispace/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testSpaceID = "65f000000000000000000002"

type mockSpaceRepository struct {
	createFunc   func(ctx context.Context, space *model.Space) error
	findByIDFunc func(ctx context.Context, id string) (*model.Space, error)
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Space, error)
	updateFunc   func(ctx context.Context, id string, space *model.Space) (*mongo.UpdateResult, error)
	deleteFunc   func(ctx context.Context, id string) error
	countFunc    func(ctx context.Context) (int64, error)
}

func (m *mockSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, space)
	}
	space.ID = testSpaceID
	return nil
}

func (m *mockSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, spaceerrors.ErrNotFound
}

func (m *mockSpaceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockSpaceRepository) Update(ctx context.Context, id string, space *model.Space) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, space)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockSpaceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSpaceRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func newTestService(repo repository.SpaceRepository) SpaceService {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewSpaceService(repo, validator.NewSpaceValidator(log), cfg)
}

func testSpace() *model.Space {
	return &model.Space{
		Name:         "Library Hall",
		Building:     "Main Library",
		RoomNumber:   "101",
		Capacity:     40,
		ManagerPhone: "+12025550123",
		IsActive:     true,
	}
}

func manager() model.Identity {
	return model.Identity{Role: model.RoleManager, SubjectID: "m-3001"}
}

func student() model.Identity {
	return model.Identity{Role: model.RoleStudent, SubjectID: "s-1001"}
}

func wantAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %s (%s), want %s", appErr.Code, appErr.Message, code)
	}
}

func TestCreateRequiresManager(t *testing.T) {
	persisted := false
	repo := &mockSpaceRepository{
		createFunc: func(ctx context.Context, space *model.Space) error {
			persisted = true
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), student(), testSpace())
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
	if persisted {
		t.Error("space was persisted for a non-manager caller")
	}

	if err := svc.Create(context.Background(), manager(), testSpace()); err != nil {
		t.Fatalf("manager Create: %v", err)
	}
}

func TestCreateSanitizesFields(t *testing.T) {
	var stored *model.Space
	repo := &mockSpaceRepository{
		createFunc: func(ctx context.Context, space *model.Space) error {
			stored = space
			return nil
		},
	}
	svc := newTestService(repo)

	space := testSpace()
	space.Name = "  Library   Hall  "
	if err := svc.Create(context.Background(), manager(), space); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stored.Name != "Library Hall" {
		t.Errorf("name = %q, want %q", stored.Name, "Library Hall")
	}
}

func TestCreateRejectsInvalidSpace(t *testing.T) {
	svc := newTestService(&mockSpaceRepository{})

	space := testSpace()
	space.ManagerPhone = "not-a-phone"
	err := svc.Create(context.Background(), manager(), space)
	wantAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestUpdateAndDeleteRequireManager(t *testing.T) {
	svc := newTestService(&mockSpaceRepository{})

	capacity := 60
	err := svc.Update(context.Background(), student(), testSpaceID, &model.SpaceUpdate{Capacity: &capacity})
	wantAppErrorCode(t, err, apperrors.CodeForbidden)

	err = svc.Delete(context.Background(), student(), testSpaceID)
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateMergesPartialInput(t *testing.T) {
	existing := testSpace()
	existing.ID = testSpaceID

	var updated *model.Space
	repo := &mockSpaceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Space, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, space *model.Space) (*mongo.UpdateResult, error) {
			updated = space
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(repo)

	capacity := 60
	if err := svc.Update(context.Background(), manager(), testSpaceID, &model.SpaceUpdate{Capacity: &capacity}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Capacity != 60 {
		t.Errorf("capacity = %d, want 60", updated.Capacity)
	}
	if updated.Name != existing.Name {
		t.Errorf("name = %q, want untouched %q", updated.Name, existing.Name)
	}
}

func TestGetAllReturnsCountAndPage(t *testing.T) {
	repo := &mockSpaceRepository{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
			return []*model.Space{testSpace(), testSpace()}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	spaces, total, err := svc.GetAll(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if len(spaces) != 2 {
		t.Errorf("page size = %d, want 2", len(spaces))
	}
}

func TestGetByIDMapsRepositoryErrors(t *testing.T) {
	repo := &mockSpaceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Space, error) {
			return nil, spaceerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), testSpaceID)
	wantAppErrorCode(t, err, apperrors.CodeNotFound)
}
