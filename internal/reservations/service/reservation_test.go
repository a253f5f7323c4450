package service

import (
	"context"
	"testing"

	reservationerrors "unispace/internal/reservations/errors"
	"unispace/internal/reservations/repository"
	"unispace/internal/reservations/validator"
	"unispace/pkg/config"
	mongotx "unispace/pkg/db/mongo"
	apperrors "unispace/pkg/errors"
	"unispace/pkg/logger"
	"unispace/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testSpaceID       = "65f000000000000000000002"
	testScheduleID    = "65f000000000000000000003"
	testReservationID = "65f000000000000000000004"
	testDate          = "2026-03-10"
)

type mockReservationRepository struct {
	createFunc             func(ctx context.Context, reservation *model.Reservation) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Reservation, error)
	findByIDAndOwnerFunc   func(ctx context.Context, id string, identity model.Identity) (*model.Reservation, error)
	listByOwnerFunc        func(ctx context.Context, identity model.Identity, limit int, offset int64) ([]*model.Reservation, error)
	countByOwnerFunc       func(ctx context.Context, identity model.Identity) (int64, error)
	updateReviewFunc       func(ctx context.Context, id, status, comment string) (*mongo.UpdateResult, error)
	deleteFunc             func(ctx context.Context, id string) error
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation)
	}
	reservation.ID = testReservationID
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationerrors.ErrNotFound
}

func (m *mockReservationRepository) FindByIDAndOwner(ctx context.Context, id string, identity model.Identity) (*model.Reservation, error) {
	if m.findByIDAndOwnerFunc != nil {
		return m.findByIDAndOwnerFunc(ctx, id, identity)
	}
	return nil, reservationerrors.ErrNotFound
}

func (m *mockReservationRepository) ListByOwner(ctx context.Context, identity model.Identity, limit int, offset int64) ([]*model.Reservation, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, identity, limit, offset)
	}
	return nil, nil
}

func (m *mockReservationRepository) CountByOwner(ctx context.Context, identity model.Identity) (int64, error) {
	if m.countByOwnerFunc != nil {
		return m.countByOwnerFunc(ctx, identity)
	}
	return 0, nil
}

func (m *mockReservationRepository) UpdateReview(ctx context.Context, id, status, comment string) (*mongo.UpdateResult, error) {
	if m.updateReviewFunc != nil {
		return m.updateReviewFunc(ctx, id, status, comment)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockScheduleEngine struct {
	placeFunc           func(ctx context.Context, schedule *model.Schedule) error
	removeFunc          func(ctx context.Context, id string) error
	getByIDFunc         func(ctx context.Context, id string) (*model.Schedule, error)
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

func (m *mockScheduleEngine) Remove(ctx context.Context, id string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, id)
	}
	return nil
}

func (m *mockScheduleEngine) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Schedule{ID: id, SpaceID: testSpaceID, Date: testDate, StartCode: 3, EndCode: 5}, nil
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

type mockSpaceCatalog struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Space, error)
}

func (m *mockSpaceCatalog) GetByID(ctx context.Context, id string) (*model.Space, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Space{ID: id, Name: "Library Hall"}, nil
}

type mockEventRemover struct {
	removeByScheduleFunc func(ctx context.Context, scheduleID string) error
}

func (m *mockEventRemover) RemoveBySchedule(ctx context.Context, scheduleID string) error {
	if m.removeByScheduleFunc != nil {
		return m.removeByScheduleFunc(ctx, scheduleID)
	}
	return nil
}

func newTestService(repo repository.ReservationRepository, schedules ScheduleEngine, spaces SpaceCatalog, events EventRemover) ReservationService {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Service: "test"})
	cfg := &config.Config{Log: log}
	return NewReservationService(repo, schedules, spaces, events, validator.NewReservationValidator(log), nil, cfg)
}

func studentIdentity() model.Identity {
	return model.Identity{Role: model.RoleStudent, SubjectID: "s-1001"}
}

func staffIdentity() model.Identity {
	return model.Identity{Role: model.RoleStaff, SubjectID: "e-2001"}
}

func managerIdentity() model.Identity {
	return model.Identity{Role: model.RoleManager, SubjectID: "m-3001"}
}

func testReservation() *model.Reservation {
	return &model.Reservation{
		ReservationType: model.BookingTypeClass,
		Description:     "Weekly study group",
		PhoneNumber:     "+12025550123",
	}
}

func testRange() *model.Schedule {
	return &model.Schedule{
		SpaceID:   testSpaceID,
		Date:      testDate,
		StartCode: 3,
		EndCode:   5,
	}
}

func strPtr(s string) *string {
	return &s
}

func ownedReservation(identity model.Identity) *model.Reservation {
	reservation := testReservation()
	reservation.ID = testReservationID
	reservation.SpaceID = testSpaceID
	reservation.ScheduleID = testScheduleID
	reservation.Date = testDate
	reservation.Status = model.StatusUnderReview
	switch {
	case identity.IsStudent():
		reservation.ReserveeType = model.ReserveeStudent
		reservation.StudentID = strPtr(identity.SubjectID)
	case identity.IsStaff():
		reservation.ReserveeType = model.ReserveeStaff
		reservation.StaffID = strPtr(identity.SubjectID)
	}
	return reservation
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

func TestCreateBindsOwnerFromIdentity(t *testing.T) {
	repo := &mockReservationRepository{}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	reservation := testReservation()
	// Client-supplied owner fields must be discarded.
	reservation.StaffID = strPtr("e-9999")
	reservation.Status = model.StatusApproved

	if err := svc.Create(context.Background(), studentIdentity(), reservation, testRange()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if reservation.ReserveeType != model.ReserveeStudent {
		t.Errorf("reservee type = %q, want %q", reservation.ReserveeType, model.ReserveeStudent)
	}
	if reservation.StudentID == nil || *reservation.StudentID != "s-1001" {
		t.Errorf("student reference = %v, want s-1001", reservation.StudentID)
	}
	if reservation.StaffID != nil {
		t.Errorf("staff reference = %v, want nil", reservation.StaffID)
	}
	if reservation.Status != model.StatusUnderReview {
		t.Errorf("status = %q, want %q", reservation.Status, model.StatusUnderReview)
	}
	if reservation.ScheduleID != testScheduleID {
		t.Errorf("schedule reference = %q, want %q", reservation.ScheduleID, testScheduleID)
	}
	if reservation.Date != testDate {
		t.Errorf("date = %q, want %q", reservation.Date, testDate)
	}
}

func TestCreateRefusesManager(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Create(context.Background(), managerIdentity(), testReservation(), testRange())
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestCreateValidatesBeforeLocking(t *testing.T) {
	locked := false
	schedules := &mockScheduleEngine{
		acquireSlotLockFunc: func(ctx context.Context, spaceID, date string) (string, error) {
			locked = true
			return "lock", nil
		},
	}
	svc := newTestService(&mockReservationRepository{}, schedules, &mockSpaceCatalog{}, &mockEventRemover{})

	reservation := testReservation()
	reservation.PhoneNumber = "not-a-phone"

	err := svc.Create(context.Background(), studentIdentity(), reservation, testRange())
	wantAppErrorCode(t, err, apperrors.CodeValidation)
	if locked {
		t.Error("slot lock was acquired for a reservation that failed validation")
	}
}

func TestCreatePropagatesScheduleConflict(t *testing.T) {
	persisted := false
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			persisted = true
			return nil
		},
	}
	schedules := &mockScheduleEngine{
		placeFunc: func(ctx context.Context, schedule *model.Schedule) error {
			return apperrors.Conflict("Requested hours [3, 5] overlap an existing schedule [4, 6]")
		},
	}
	svc := newTestService(repo, schedules, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Create(context.Background(), studentIdentity(), testReservation(), testRange())
	wantAppErrorCode(t, err, apperrors.CodeConflict)
	if persisted {
		t.Error("reservation was persisted despite the schedule conflict")
	}
}

func TestCreateReleasesLockAfterConflict(t *testing.T) {
	released := ""
	schedules := &mockScheduleEngine{
		placeFunc: func(ctx context.Context, schedule *model.Schedule) error {
			return apperrors.Conflict("overlap")
		},
		releaseSlotLockFunc: func(ctx context.Context, lockID string) error {
			released = lockID
			return nil
		},
	}
	svc := newTestService(&mockReservationRepository{}, schedules, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Create(context.Background(), studentIdentity(), testReservation(), testRange())
	wantAppErrorCode(t, err, apperrors.CodeConflict)
	if released == "" {
		t.Error("slot lock was not released after the conflict")
	}
}

func TestCreateMapsDuplicateScheduleOwnerToConflict(t *testing.T) {
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, reservation *model.Reservation) error {
			return mongo.WriteException{
				WriteErrors: mongo.WriteErrors{
					{Code: 11000, Message: "E11000 duplicate key error"},
				},
			}
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Create(context.Background(), studentIdentity(), testReservation(), testRange())
	wantAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestDeleteCascadesInOrder(t *testing.T) {
	var order []string
	identity := studentIdentity()

	repo := &mockReservationRepository{
		findByIDAndOwnerFunc: func(ctx context.Context, id string, got model.Identity) (*model.Reservation, error) {
			if got != identity {
				t.Errorf("lookup identity = %+v, want %+v", got, identity)
			}
			return ownedReservation(identity), nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			order = append(order, "reservation")
			return nil
		},
	}
	schedules := &mockScheduleEngine{
		removeFunc: func(ctx context.Context, id string) error {
			order = append(order, "schedule")
			return nil
		},
	}
	events := &mockEventRemover{
		removeByScheduleFunc: func(ctx context.Context, scheduleID string) error {
			order = append(order, "events")
			return nil
		},
	}
	svc := newTestService(repo, schedules, &mockSpaceCatalog{}, events)

	if err := svc.Delete(context.Background(), identity, testReservationID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{"events", "schedule", "reservation"}
	if len(order) != len(want) {
		t.Fatalf("cascade order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("cascade order = %v, want %v", order, want)
		}
	}
}

func TestDeleteToleratesDanglingSchedule(t *testing.T) {
	deleted := false
	identity := studentIdentity()
	repo := &mockReservationRepository{
		findByIDAndOwnerFunc: func(ctx context.Context, id string, got model.Identity) (*model.Reservation, error) {
			return ownedReservation(identity), nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	schedules := &mockScheduleEngine{
		removeFunc: func(ctx context.Context, id string) error {
			return apperrors.NotFoundWithID("Schedule", id)
		},
	}
	svc := newTestService(repo, schedules, &mockSpaceCatalog{}, &mockEventRemover{})

	if err := svc.Delete(context.Background(), identity, testReservationID); err != nil {
		t.Fatalf("Delete with missing schedule row: %v", err)
	}
	if !deleted {
		t.Error("reservation was not deleted after the schedule row turned out missing")
	}
}

func TestDeleteUnownedReservationLooksMissing(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDAndOwnerFunc: func(ctx context.Context, id string, identity model.Identity) (*model.Reservation, error) {
			return nil, reservationerrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Delete(context.Background(), staffIdentity(), testReservationID)
	wantAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteAbortsWhenCascadeStepFails(t *testing.T) {
	deleted := false
	identity := studentIdentity()
	repo := &mockReservationRepository{
		findByIDAndOwnerFunc: func(ctx context.Context, id string, got model.Identity) (*model.Reservation, error) {
			return ownedReservation(identity), nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	schedules := &mockScheduleEngine{
		removeFunc: func(ctx context.Context, id string) error {
			return apperrors.Internal("Failed to delete schedule", nil)
		},
	}
	svc := newTestService(repo, schedules, &mockSpaceCatalog{}, &mockEventRemover{})

	err := svc.Delete(context.Background(), identity, testReservationID)
	wantAppErrorCode(t, err, apperrors.CodeInternal)
	if deleted {
		t.Error("reservation was deleted after an earlier cascade step failed")
	}
}

func TestGetDetailEnforcesOwnership(t *testing.T) {
	owner := studentIdentity()
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return ownedReservation(owner), nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	if _, err := svc.GetDetail(context.Background(), owner, testReservationID); err != nil {
		t.Fatalf("owner GetDetail: %v", err)
	}
	if _, err := svc.GetDetail(context.Background(), managerIdentity(), testReservationID); err != nil {
		t.Fatalf("manager GetDetail: %v", err)
	}

	_, err := svc.GetDetail(context.Background(), staffIdentity(), testReservationID)
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestGetDetailCarriesProjections(t *testing.T) {
	owner := studentIdentity()
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return ownedReservation(owner), nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	detail, err := svc.GetDetail(context.Background(), owner, testReservationID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.StatusLabel != "Under review" {
		t.Errorf("status label = %q, want %q", detail.StatusLabel, "Under review")
	}
	if detail.SpaceName != "Library Hall" {
		t.Errorf("space name = %q, want %q", detail.SpaceName, "Library Hall")
	}
	if len(detail.HourCodes) != 3 {
		t.Errorf("hour codes = %v, want three codes", detail.HourCodes)
	}
}

func TestReviewRequiresManager(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	review := &model.ReservationReview{Status: model.StatusApproved}
	err := svc.Review(context.Background(), studentIdentity(), testReservationID, review)
	wantAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestReviewRecordsDecision(t *testing.T) {
	owner := studentIdentity()
	var gotStatus, gotComment string
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			return ownedReservation(owner), nil
		},
		updateReviewFunc: func(ctx context.Context, id, status, comment string) (*mongo.UpdateResult, error) {
			gotStatus, gotComment = status, comment
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	review := &model.ReservationReview{Status: model.StatusRejected, ManagerComment: "Room reserved for finals"}
	if err := svc.Review(context.Background(), managerIdentity(), testReservationID, review); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if gotStatus != model.StatusRejected {
		t.Errorf("status = %q, want %q", gotStatus, model.StatusRejected)
	}
	if gotComment != "Room reserved for finals" {
		t.Errorf("comment = %q, want %q", gotComment, "Room reserved for finals")
	}
}

func TestReviewRejectsUndecidedStatus(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	review := &model.ReservationReview{Status: model.StatusUnderReview}
	err := svc.Review(context.Background(), managerIdentity(), testReservationID, review)
	wantAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestListMineBuildsProjections(t *testing.T) {
	owner := studentIdentity()
	repo := &mockReservationRepository{
		listByOwnerFunc: func(ctx context.Context, identity model.Identity, limit int, offset int64) ([]*model.Reservation, error) {
			return []*model.Reservation{ownedReservation(owner)}, nil
		},
		countByOwnerFunc: func(ctx context.Context, identity model.Identity) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo, &mockScheduleEngine{}, &mockSpaceCatalog{}, &mockEventRemover{})

	summaries, total, err := svc.ListMine(context.Background(), owner, 10, 0)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if total != 1 || len(summaries) != 1 {
		t.Fatalf("ListMine returned %d rows, total %d", len(summaries), total)
	}

	row := summaries[0]
	if row.SpaceName != "Library Hall" {
		t.Errorf("space name = %q, want %q", row.SpaceName, "Library Hall")
	}
	if row.Date != testDate {
		t.Errorf("date = %q, want %q", row.Date, testDate)
	}
	if row.StartTime != "09:00:00" || row.EndTime != "12:00:00" {
		t.Errorf("times = %q-%q, want 09:00:00-12:00:00", row.StartTime, row.EndTime)
	}
	if row.StatusLabel != "Under review" {
		t.Errorf("status label = %q, want %q", row.StatusLabel, "Under review")
	}
}
