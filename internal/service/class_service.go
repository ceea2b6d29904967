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

var (
	// ErrClassNotFound indicates the requested class does not exist.
	ErrClassNotFound = errors.New("class not found")
	// ErrNotClassOwner indicates the caller is not the class's owning teacher.
	ErrNotClassOwner = errors.New("only the owning teacher may manage this class")
	// ErrNotStudentRole indicates the target user does not hold the STUDENT role.
	ErrNotStudentRole = errors.New("user is not a student")
	// ErrStudentNotInClass indicates the student is not on the class roster.
	ErrStudentNotInClass = errors.New("student is not a member of this class")
)

// ClassService exposes class and roster use cases for teachers and students.
type ClassService interface {
	Create(ctx context.Context, payload dto.ClassCreateRequest, teacherID uint) (dto.ClassResponse, error)
	Get(ctx context.Context, classID uint) (dto.ClassResponse, error)
	GetDetail(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error)
	Update(ctx context.Context, classID uint, payload dto.ClassUpdateRequest, teacherID uint) (dto.ClassResponse, error)
	Delete(ctx context.Context, classID, teacherID uint) error
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error)
	ListJoined(ctx context.Context, studentID uint) ([]dto.ClassResponse, error)
	ListAvailable(ctx context.Context, studentID uint) ([]dto.ClassResponse, error)
	AddStudent(ctx context.Context, classID, studentID, teacherID uint) error
	RemoveStudent(ctx context.Context, classID, studentID, teacherID uint) error
}

type classService struct {
	classes   repository.ClassRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService builds the class service.
func NewClassService(classes repository.ClassRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, payload dto.ClassCreateRequest, teacherID uint) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrUserNotFound
		}
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:        payload.Name,
		Description: payload.Description,
		TeacherID:   teacherID,
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	class.Teacher = teacher

	s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", teacherID).Msg("class created")
	return dto.NewClassResponse(class, 0), nil
}

func (s *classService) Get(ctx context.Context, classID uint) (dto.ClassResponse, error) {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	count, err := s.classes.CountStudents(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class, count), nil
}

func (s *classService) GetDetail(ctx context.Context, classID, teacherID uint) (dto.ClassResponse, error) {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if class.TeacherID != teacherID {
		return dto.ClassResponse{}, ErrNotClassOwner
	}

	students, err := s.classes.ListStudents(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	response := dto.NewClassResponse(class, int64(len(students)))
	response.Students = dto.NewUserResponseSlice(students)
	return response, nil
}

func (s *classService) Update(ctx context.Context, classID uint, payload dto.ClassUpdateRequest, teacherID uint) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if class.TeacherID != teacherID {
		return dto.ClassResponse{}, ErrNotClassOwner
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}
	if payload.Description != nil {
		class.Description = *payload.Description
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	count, err := s.classes.CountStudents(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", classID).Msg("class updated")
	return dto.NewClassResponse(class, count), nil
}

func (s *classService) Delete(ctx context.Context, classID, teacherID uint) error {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != teacherID {
		return ErrNotClassOwner
	}

	if err := s.classes.Delete(ctx, classID); err != nil {
		return err
	}

	s.logger.Info().Uint("class_id", classID).Msg("class deleted")
	return nil
}

func (s *classService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.withStudentCounts(ctx, classes)
}

func (s *classService) ListJoined(ctx context.Context, studentID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListJoinedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.withStudentCounts(ctx, classes)
}

func (s *classService) ListAvailable(ctx context.Context, studentID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListAvailableForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.withStudentCounts(ctx, classes)
}

func (s *classService) AddStudent(ctx context.Context, classID, studentID, teacherID uint) error {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != teacherID {
		return ErrNotClassOwner
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if student.Role != models.RoleStudent {
		return ErrNotStudentRole
	}

	member, err := s.classes.IsMember(ctx, classID, studentID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}

	if err := s.classes.AddStudent(ctx, classID, studentID); err != nil {
		return err
	}

	s.logger.Info().Uint("class_id", classID).Uint("student_id", studentID).Msg("student added to roster")
	return nil
}

func (s *classService) RemoveStudent(ctx context.Context, classID, studentID, teacherID uint) error {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != teacherID {
		return ErrNotClassOwner
	}

	if err := s.classes.RemoveStudent(ctx, classID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotInClass
		}
		return err
	}

	s.logger.Info().Uint("class_id", classID).Uint("student_id", studentID).Msg("student removed from roster")
	return nil
}

func (s *classService) loadClass(ctx context.Context, classID uint) (models.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}
	return class, nil
}

func (s *classService) withStudentCounts(ctx context.Context, classes []models.Class) ([]dto.ClassResponse, error) {
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
