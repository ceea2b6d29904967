package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
)

type goalFixture struct {
	service GoalService
	users   *memoryUserRepo
	goals   *memoryGoalRepo
	teacher models.User
	student models.User
}

func newGoalFixture(t *testing.T) goalFixture {
	t.Helper()

	users := newMemoryUserRepo()
	goals := newMemoryGoalRepo()
	teacher := users.seed(models.User{Username: "guru", Name: "Guru", Email: "guru@campus.test", Role: models.RoleTeacher})
	student := users.seed(models.User{Username: "siswa", Name: "Siswa", Email: "siswa@campus.test", Role: models.RoleStudent})

	svc := NewGoalService(goals, users, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return goalFixture{service: svc, users: users, goals: goals, teacher: teacher, student: student}
}

func TestGoalCreate(t *testing.T) {
	fx := newGoalFixture(t)

	resp, err := fx.service.Create(context.Background(), dto.GoalCreateRequest{
		Title:     "Hafal tabel periodik",
		StudentID: fx.student.ID,
		DueDate:   "2026-12-01",
	}, fx.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, models.GoalInProgress, resp.Status)
	require.Equal(t, 0, resp.Progress)
	require.NotNil(t, resp.DueDate)
}

func TestGoalCreateRequiresStudentTarget(t *testing.T) {
	fx := newGoalFixture(t)

	_, err := fx.service.Create(context.Background(), dto.GoalCreateRequest{
		Title:     "Hafal tabel periodik",
		StudentID: fx.teacher.ID,
	}, fx.teacher.ID)
	require.ErrorIs(t, err, ErrNotStudentRole)
}

func TestGoalUpdateRequiresOwner(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()
	other := fx.users.seed(models.User{Username: "guru2", Name: "Guru Dua", Email: "guru2@campus.test", Role: models.RoleTeacher})

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	title := "Hafal 20 unsur pertama"
	_, err = fx.service.Update(ctx, created.ID, dto.GoalUpdateRequest{Title: &title}, other.ID)
	require.ErrorIs(t, err, ErrNotGoalOwner)
}

func TestGoalFullProgressCompletes(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	progress := 100
	updated, err := fx.service.Update(ctx, created.ID, dto.GoalUpdateRequest{Progress: &progress}, fx.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, models.GoalCompleted, updated.Status)
}

func TestGoalUpdateProgressByStudent(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	resp, err := fx.service.UpdateProgress(ctx, created.ID, fx.student.ID, 60)
	require.NoError(t, err)
	require.Equal(t, 60, resp.Progress)
	require.Equal(t, models.GoalInProgress, resp.Status)

	resp, err = fx.service.UpdateProgress(ctx, created.ID, fx.student.ID, 100)
	require.NoError(t, err)
	require.Equal(t, models.GoalCompleted, resp.Status)
}

func TestGoalUpdateProgressBounds(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	_, err = fx.service.UpdateProgress(ctx, created.ID, fx.student.ID, 101)
	require.Error(t, err)
	_, err = fx.service.UpdateProgress(ctx, created.ID, fx.student.ID, -1)
	require.Error(t, err)
}

func TestGoalUpdateProgressRequiresAssignedStudent(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()
	other := fx.users.seed(models.User{Username: "siswa2", Name: "Siswa Dua", Email: "siswa2@campus.test", Role: models.RoleStudent})

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	_, err = fx.service.UpdateProgress(ctx, created.ID, other.ID, 50)
	require.ErrorIs(t, err, ErrNotGoalOwner)
}

func TestGoalLists(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	forTeacher, err := fx.service.ListForTeacher(ctx, fx.teacher.ID)
	require.NoError(t, err)
	require.Len(t, forTeacher, 1)

	forStudent, err := fx.service.ListForStudent(ctx, fx.student.ID)
	require.NoError(t, err)
	require.Len(t, forStudent, 1)
}

func TestGoalDelete(t *testing.T) {
	fx := newGoalFixture(t)
	ctx := context.Background()

	created, err := fx.service.Create(ctx, dto.GoalCreateRequest{Title: "Hafal tabel periodik", StudentID: fx.student.ID}, fx.teacher.ID)
	require.NoError(t, err)

	require.ErrorIs(t, fx.service.Delete(ctx, created.ID+99, fx.teacher.ID), ErrGoalNotFound)
	require.NoError(t, fx.service.Delete(ctx, created.ID, fx.teacher.ID))

	forTeacher, err := fx.service.ListForTeacher(ctx, fx.teacher.ID)
	require.NoError(t, err)
	require.Empty(t, forTeacher)
}
