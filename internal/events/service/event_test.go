package service

import (
	"context"
	"testing"

	eventerrors "unispace/internal/events/errors"
	"unispace/internal/events/repository"
	"unispace/internal/events/validator"
	"unispace/pkg/config"
	mongotx "unispace/pkg/db/mongo"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/logger"
	"unispace/pkg/model"
)

const (
	testSpaceID    = "65f000000000000000000002"
	testScheduleID = "65f000000000000000000003"
	testEventID    = "65f000000000000000000005"
	testDate       = "2026-03-10"
)

type mockEventRepository struct {
	createFunc             func(ctx context.Context, event *model.Event) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Event, error)
	findAllFunc            func(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	countFunc              func(ctx context.Context) (int64, error)
	deleteByScheduleFunc   func(ctx context.Context, scheduleID string) (int64, error)
	deleteFunc             func(ctx context.Context, id string) error
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	event.ID = testEventID
	return nil
}

func (m *mockEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, eventerrors.ErrNotFound
}

func (m *mockEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockEventRepository) DeleteBySchedule(ctx context.Context, scheduleID string) (int64, error) {
	if m.deleteByScheduleFunc != nil {
		return m.deleteByScheduleFunc(ctx, scheduleID)
	}
	return 0, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEventRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockScheduleEngine struct {
	placeFunc           func(ctx context.Context, schedule *model.Schedule) error
	hourCodesFunc       func(ctx context.Context, scheduleID string) ([]int, error)
	acquireSlotLockFunc func(ctx context.Context, spaceID, date string) (string, error)
	releaseSlotLockFunc func(ctx context.Context, lockID string) error
}

func (m *mockScheduleEngine) Place(ctx context.Context, schedule *model.Schedule) error {
	if m.placeFunc != nil {
		return m.placeFunc(ctx, schedule)
	}
	schedule.ID = testScheduleID
	return nil
}

func (m *mockScheduleEngine) HourCodes(ctx context.Context, scheduleID string) ([]int, error) {
	if m.hourCodesFunc != nil {
		return m.hourCodesFunc(ctx, scheduleID)
	}
	return []int{3, 4, 5}, nil
}

func (m *mockScheduleEngine) AcquireSlotLock(ctx context.Context, spaceID, date string) (string, error) {
	if m.acquireSlotLockFunc != nil {
		return m.acquireSlotLockFunc(ctx, spaceID, date)
	}
	return "schedule_lock_" + spaceID + "_" + date, nil
}

func (m *mockScheduleEngine) ReleaseSlotLock(ctx context.Context, lockID string) error {
	if m.releaseSlotLockFunc != nil {
		return m.releaseSlotLockFunc(ctx, lockID)
	}
	return nil
}

func newTestService(repo repository.EventRepository, schedules ScheduleEngine) EventService {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewEventService(repo, schedules, validator.NewEventValidator(log), cfg)
}

func strPtr(s string) *string {
	return &s
}

func testEvent() *model.Event {
	return &model.Event{
		Title:       "Robotics Club Demo",
		EventType:   model.BookingTypeEvent,
		SpaceID:     testSpaceID,
		Description: "End of semester showcase",
	}
}

func storedEvent() *model.Event {
	event := testEvent()
	event.ID = testEventID
	event.OrganizerType = model.ReserveeStudent
	event.StudentID = strPtr("s-1001")
	scheduleID := testScheduleID
	event.ScheduleID = &scheduleID
	return event
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

func TestCreateWithoutScheduleSkipsLocking(t *testing.T) {
	locked := false
	schedules := &mockScheduleEngine{
		acquireSlotLockFunc: func(ctx context.Context, spaceID, date string) (string, error) {
			locked = true
			return "lock", nil
		},
	}
	svc := newTestService(&mockEventRepository{}, schedules)

	event := testEvent()
	identity := model.Identity{Role: model.RoleStaff, SubjectID: "e-2001"}
	if err := svc.Create(context.Background(), identity, event, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if locked {
		t.Error("slot lock was acquired for an event without a time range")
	}
	if event.ScheduleID != nil {
		t.Errorf("schedule reference = %v, want nil", event.ScheduleID)
	}
	if event.OrganizerType != model.ReserveeStaff {
		t.Errorf("organizer type = %q, want %q", event.OrganizerType, model.ReserveeStaff)
	}
	if event.StaffID == nil || *event.StaffID != "e-2001" {
		t.Errorf("staff reference = %v, want e-2001", event.StaffID)
	}
}

func TestCreateWithScheduleBindsAtomically(t *testing.T) {
	repo := &mockEventRepository{}
	svc := newTestService(repo, &mockScheduleEngine{})

	event := testEvent()
	schedule := &model.Schedule{Date: testDate, StartCode: 3, EndCode: 5}
	identity := model.Identity{Role: model.RoleStudent, SubjectID: "s-1001"}
	if err := svc.Create(context.Background(), identity, event, schedule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if schedule.SpaceID != testSpaceID {
		t.Errorf("schedule space = %q, want %q", schedule.SpaceID, testSpaceID)
	}
	if event.ScheduleID == nil || *event.ScheduleID != testScheduleID {
		t.Errorf("schedule reference = %v, want %q", event.ScheduleID, testScheduleID)
	}
}

func TestCreatePropagatesScheduleConflict(t *testing.T) {
	persisted := false
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *model.Event) error {
			persisted = true
			return nil
		},
	}
	schedules := &mockScheduleEngine{
		placeFunc: func(ctx context.Context, schedule *model.Schedule) error {
			return apperrors.Conflict("overlap")
		},
	}
	svc := newTestService(repo, schedules)

	identity := model.Identity{Role: model.RoleStudent, SubjectID: "s-1001"}
	err := svc.Create(context.Background(), identity, testEvent(), &model.Schedule{Date: testDate, StartCode: 3, EndCode: 5})
	wantAppErrorCode(t, err, apperrors.CodeConflict)
	if persisted {
		t.Error("event was persisted despite the schedule conflict")
	}
}

func TestCreateRefusesManager(t *testing.T) {
	svc := newTestService(&mockEventRepository{}, &mockScheduleEngine{})

	identity := model.Identity{Role: model.RoleManager, SubjectID: "m-3001"}
	err := svc.Create(context.Background(), identity, testEvent(), nil)
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestGetByIDBuildsView(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return storedEvent(), nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{})

	view, err := svc.GetByID(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if view.Organizer != "student:s-1001" {
		t.Errorf("organizer = %q, want %q", view.Organizer, "student:s-1001")
	}
	if len(view.HourCodes) != 3 {
		t.Errorf("hour codes = %v, want three codes", view.HourCodes)
	}
}

func TestListReportsEmptyAsNotFound(t *testing.T) {
	svc := newTestService(&mockEventRepository{}, &mockScheduleEngine{})

	_, _, err := svc.List(context.Background(), 10, 0)
	wantAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestListReturnsViews(t *testing.T) {
	repo := &mockEventRepository{
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
			return []*model.Event{storedEvent()}, nil
		},
		countFunc: func(ctx context.Context) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{})

	views, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("List returned %d rows, total %d", len(views), total)
	}
	if views[0].Organizer != "student:s-1001" {
		t.Errorf("organizer = %q, want %q", views[0].Organizer, "student:s-1001")
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return storedEvent(), nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{})

	owner := model.Identity{Role: model.RoleStudent, SubjectID: "s-1001"}
	if err := svc.Delete(context.Background(), owner, testEventID); err != nil {
		t.Fatalf("organizer Delete: %v", err)
	}

	manager := model.Identity{Role: model.RoleManager, SubjectID: "m-3001"}
	if err := svc.Delete(context.Background(), manager, testEventID); err != nil {
		t.Fatalf("manager Delete: %v", err)
	}

	other := model.Identity{Role: model.RoleStaff, SubjectID: "e-2001"}
	err := svc.Delete(context.Background(), other, testEventID)
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestRemoveByScheduleToleratesZeroMatches(t *testing.T) {
	repo := &mockEventRepository{
		deleteByScheduleFunc: func(ctx context.Context, scheduleID string) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{})

	if err := svc.RemoveBySchedule(context.Background(), testScheduleID); err != nil {
		t.Fatalf("RemoveBySchedule: %v", err)
	}
}
