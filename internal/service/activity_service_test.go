package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
)

type activityFixture struct {
	service    ActivityService
	users      *memoryUserRepo
	activities *memoryActivityRepo
	teacher    models.User
}

func newActivityFixture(t *testing.T) activityFixture {
	t.Helper()

	users := newMemoryUserRepo()
	activities := newMemoryActivityRepo()
	teacher := users.seed(models.User{Username: "guru", Name: "Guru", Email: "guru@campus.test", Role: models.RoleTeacher})

	svc := NewActivityService(activities, users, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return activityFixture{service: svc, users: users, activities: activities, teacher: teacher}
}

func activityCreateRequest() dto.ActivityCreateRequest {
	return dto.ActivityCreateRequest{
		Title:           "Workshop Robotika",
		Description:     "Merakit robot line follower",
		Location:        "Lab Komputer",
		Organizer:       "OSIS",
		Type:            models.ActivityTypeWorkshop,
		StartTime:       "2026-09-10T09:00:00Z",
		EndTime:         "2026-09-10T12:00:00Z",
		MaxParticipants: 30,
	}
}

func TestActivityCreate(t *testing.T) {
	fx := newActivityFixture(t)

	resp, err := fx.service.Create(context.Background(), activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityUpcoming, resp.Status)
	require.Equal(t, 0, resp.CurrentParticipants)
	require.Equal(t, fx.teacher.ID, resp.CreatorID)
}

func TestActivityCreateAcceptsPlainTimestamps(t *testing.T) {
	fx := newActivityFixture(t)

	payload := activityCreateRequest()
	payload.StartTime = "2026-09-10 09:00:00"
	payload.EndTime = "2026-09-10 12:00:00"

	_, err := fx.service.Create(context.Background(), payload, fx.teacher.ID)
	require.NoError(t, err)
}

func TestActivityCreateRejectsInvertedTimeRange(t *testing.T) {
	fx := newActivityFixture(t)

	payload := activityCreateRequest()
	payload.StartTime = "2026-09-10T12:00:00Z"
	payload.EndTime = "2026-09-10T09:00:00Z"

	_, err := fx.service.Create(context.Background(), payload, fx.teacher.ID)
	require.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestActivityCreateRejectsUnknownType(t *testing.T) {
	fx := newActivityFixture(t)

	payload := activityCreateRequest()
	payload.Type = "FIELD_TRIP"

	_, err := fx.service.Create(context.Background(), payload, fx.teacher.ID)
	require.ErrorIs(t, err, ErrInvalidActivityType)
}

func TestActivityUpdateRequiresCreator(t *testing.T) {
	fx := newActivityFixture(t)
	ctx := context.Background()
	other := fx.users.seed(models.User{Username: "guru2", Name: "Guru Dua", Email: "guru2@campus.test", Role: models.RoleTeacher})

	created, err := fx.service.Create(ctx, activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	title := "Workshop Robotika Lanjutan"
	_, err = fx.service.Update(ctx, created.ID, dto.ActivityUpdateRequest{Title: &title}, other.ID)
	require.ErrorIs(t, err, ErrNotActivityCreator)
}

func TestActivityStatusIsManual(t *testing.T) {
	fx := newActivityFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	status := models.ActivityCompleted
	updated, err := fx.service.Update(ctx, created.ID, dto.ActivityUpdateRequest{Status: &status}, fx.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityCompleted, updated.Status)

	bogus := "POSTPONED"
	_, err = fx.service.Update(ctx, created.ID, dto.ActivityUpdateRequest{Status: &bogus}, fx.teacher.ID)
	require.ErrorIs(t, err, ErrInvalidActivityStatus)
}

func TestActivityCapacityCannotDropBelowCurrent(t *testing.T) {
	fx := newActivityFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	activity := fx.activities.activities[created.ID]
	activity.CurrentParticipants = 5
	fx.activities.activities[created.ID] = activity

	smaller := 3
	_, err = fx.service.Update(ctx, created.ID, dto.ActivityUpdateRequest{MaxParticipants: &smaller}, fx.teacher.ID)
	require.ErrorIs(t, err, ErrCapacityBelowCurrent)

	larger := 40
	updated, err := fx.service.Update(ctx, created.ID, dto.ActivityUpdateRequest{MaxParticipants: &larger}, fx.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, 40, updated.MaxParticipants)
}

func TestActivityListFiltersByType(t *testing.T) {
	fx := newActivityFixture(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	seminar := activityCreateRequest()
	seminar.Title = "Seminar Beasiswa"
	seminar.Type = models.ActivityTypeSeminar
	_, err = fx.service.Create(ctx, seminar, fx.teacher.ID)
	require.NoError(t, err)

	all, err := fx.service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	workshops, err := fx.service.List(ctx, models.ActivityTypeWorkshop)
	require.NoError(t, err)
	require.Len(t, workshops, 1)
	require.Equal(t, "Workshop Robotika", workshops[0].Title)

	_, err = fx.service.List(ctx, "FIELD_TRIP")
	require.ErrorIs(t, err, ErrInvalidActivityType)
}

func TestActivityDelete(t *testing.T) {
	fx := newActivityFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	require.ErrorIs(t, fx.service.Delete(ctx, created.ID, created.ID+99), ErrNotActivityCreator)
	require.NoError(t, fx.service.Delete(ctx, created.ID, fx.teacher.ID))

	_, err = fx.service.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivityTimesParsedIntoModel(t *testing.T) {
	fx := newActivityFixture(t)

	resp, err := fx.service.Create(context.Background(), activityCreateRequest(), fx.teacher.ID)
	require.NoError(t, err)

	stored := fx.activities.activities[resp.ID]
	require.Equal(t, time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC), stored.StartTime.UTC())
	require.True(t, stored.EndTime.After(stored.StartTime))
}
