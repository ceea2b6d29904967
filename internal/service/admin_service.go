package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

// ErrTeacherRequired indicates an admin class operation without a teacher.
var ErrTeacherRequired = errors.New("a teacher must be assigned")

// AdminService covers directory-wide management reserved for administrators:
// class ownership, user listings and the platform overview.
type AdminService interface {
	CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	ReassignClass(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error)
	ListClasses(ctx context.Context) ([]dto.ClassResponse, error)
	ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error)
	ListUnassignedTeachers(ctx context.Context) ([]dto.UserResponse, error)
	Overview(ctx context.Context) (dto.AdminOverviewResponse, error)
}

type adminService struct {
	classes    repository.ClassRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAdminService builds the admin service.
func NewAdminService(classes repository.ClassRepository, users repository.UserRepository, activities repository.ActivityRepository, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		classes:    classes,
		users:      users,
		activities: activities,
		validator:  validate,
		logger:     logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) CreateClass(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}
	if payload.TeacherID == nil {
		return dto.ClassResponse{}, ErrTeacherRequired
	}

	teacher, err := s.loadTeacher(ctx, *payload.TeacherID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:        payload.Name,
		Description: payload.Description,
		TeacherID:   teacher.ID,
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	class.Teacher = teacher

	s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", teacher.ID).Msg("class created by admin")
	return dto.NewClassResponse(class, 0), nil
}

func (s *adminService) ReassignClass(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	class.TeacherID = teacherID
	class.Teacher = teacher
	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	count, err := s.classes.CountStudents(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", classID).Uint("teacher_id", teacherID).Msg("class reassigned")
	return dto.NewClassResponse(class, count), nil
}

func (s *adminService) ListClasses(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassResponse, 0, len(classes))
	for _, class := range classes {
		count, err := s.classes.CountStudents(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewClassResponse(class, count))
	}
	return responses, nil
}

func (s *adminService) ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

// ListUnassignedTeachers returns teachers who currently own no class.
func (s *adminService) ListUnassignedTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	teachers, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	unassigned := make([]models.User, 0, len(teachers))
	for _, teacher := range teachers {
		owned, err := s.classes.ListByTeacher(ctx, teacher.ID)
		if err != nil {
			return nil, err
		}
		if len(owned) == 0 {
			unassigned = append(unassigned, teacher)
		}
	}
	return dto.NewUserResponseSlice(unassigned), nil
}

func (s *adminService) Overview(ctx context.Context) (dto.AdminOverviewResponse, error) {
	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return dto.AdminOverviewResponse{}, err
	}
	teachers, err := s.users.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return dto.AdminOverviewResponse{}, err
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		return dto.AdminOverviewResponse{}, err
	}
	activities, err := s.activities.List(ctx)
	if err != nil {
		return dto.AdminOverviewResponse{}, err
	}

	return dto.AdminOverviewResponse{
		StudentCount:  students,
		TeacherCount:  teachers,
		ClassCount:    int64(len(classes)),
		ActivityCount: int64(len(activities)),
	}, nil
}

func (s *adminService) loadTeacher(ctx context.Context, teacherID uint) (models.User, error) {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return models.User{}, ErrNotTeacherRole
	}
	return teacher, nil
}
