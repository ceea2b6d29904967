package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
)

type adminFixture struct {
	service    AdminService
	users      *memoryUserRepo
	classes    *memoryClassRepo
	activities *memoryActivityRepo
	teacher    models.User
	student    models.User
}

func newAdminFixture(t *testing.T) adminFixture {
	t.Helper()

	users := newMemoryUserRepo()
	classes := newMemoryClassRepo(users)
	activities := newMemoryActivityRepo()

	teacher := users.seed(models.User{Username: "guru", Name: "Guru", Email: "guru@campus.test", Role: models.RoleTeacher})
	student := users.seed(models.User{Username: "siswa", Name: "Siswa", Email: "siswa@campus.test", Role: models.RoleStudent})

	svc := NewAdminService(classes, users, activities, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return adminFixture{service: svc, users: users, classes: classes, activities: activities, teacher: teacher, student: student}
}

func TestAdminCreateClass(t *testing.T) {
	fx := newAdminFixture(t)

	created, err := fx.service.CreateClass(context.Background(), dto.ClassCreateRequest{
		Name:      "Matematika X",
		TeacherID: &fx.teacher.ID,
	})
	require.NoError(t, err)
	require.Equal(t, fx.teacher.ID, created.TeacherID)
	require.Equal(t, fx.teacher.Name, created.TeacherName)
}

func TestAdminCreateClassRequiresTeacher(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateClass(ctx, dto.ClassCreateRequest{Name: "Matematika X"})
	require.ErrorIs(t, err, ErrTeacherRequired)

	_, err = fx.service.CreateClass(ctx, dto.ClassCreateRequest{Name: "Matematika X", TeacherID: &fx.student.ID})
	require.ErrorIs(t, err, ErrNotTeacherRole)
}

func TestAdminReassignClass(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()
	other := fx.users.seed(models.User{Username: "guru2", Name: "Guru Dua", Email: "guru2@campus.test", Role: models.RoleTeacher})

	created, err := fx.service.CreateClass(ctx, dto.ClassCreateRequest{Name: "Matematika X", TeacherID: &fx.teacher.ID})
	require.NoError(t, err)

	reassigned, err := fx.service.ReassignClass(ctx, created.ID, other.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, reassigned.TeacherID)

	_, err = fx.service.ReassignClass(ctx, created.ID, fx.student.ID)
	require.ErrorIs(t, err, ErrNotTeacherRole)
}

func TestAdminListUsersByRole(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()

	all, err := fx.service.ListUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	students, err := fx.service.ListUsers(ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, fx.student.Username, students[0].Username)

	_, err = fx.service.ListUsers(ctx, "JANITOR")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminListUnassignedTeachers(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()
	idle := fx.users.seed(models.User{Username: "guru2", Name: "Guru Dua", Email: "guru2@campus.test", Role: models.RoleTeacher})

	_, err := fx.service.CreateClass(ctx, dto.ClassCreateRequest{Name: "Matematika X", TeacherID: &fx.teacher.ID})
	require.NoError(t, err)

	unassigned, err := fx.service.ListUnassignedTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	require.Equal(t, idle.Username, unassigned[0].Username)
}

func TestAdminOverview(t *testing.T) {
	fx := newAdminFixture(t)
	ctx := context.Background()

	_, err := fx.service.CreateClass(ctx, dto.ClassCreateRequest{Name: "Matematika X", TeacherID: &fx.teacher.ID})
	require.NoError(t, err)
	fx.activities.seed(models.Activity{Title: "Lomba Sains", CreatorID: fx.teacher.ID, Status: models.ActivityUpcoming, MaxParticipants: 10})

	overview, err := fx.service.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), overview.StudentCount)
	require.Equal(t, int64(1), overview.TeacherCount)
	require.Equal(t, int64(1), overview.ClassCount)
	require.Equal(t, int64(1), overview.ActivityCount)
}
