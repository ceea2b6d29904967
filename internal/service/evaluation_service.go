package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrEvaluationNotFound indicates the requested evaluation does not exist.
	ErrEvaluationNotFound = errors.New("evaluation not found")
	// ErrNotEvaluationAuthor indicates the caller did not write the evaluation.
	ErrNotEvaluationAuthor = errors.New("only the authoring teacher may manage this evaluation")
)

// EvaluationService covers teacher assessments of students.
type EvaluationService interface {
	Create(ctx context.Context, payload dto.EvaluationCreateRequest, teacherID uint) (dto.EvaluationResponse, error)
	Update(ctx context.Context, evaluationID uint, payload dto.EvaluationUpdateRequest, teacherID uint) (dto.EvaluationResponse, error)
	Delete(ctx context.Context, evaluationID, teacherID uint) error
	ListForStudent(ctx context.Context, studentID, teacherID uint) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	users       repository.UserRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	sanitizer   *bluemonday.Policy
}

// NewEvaluationService builds the evaluation service.
func NewEvaluationService(evaluations repository.EvaluationRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		users:       users,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *evaluationService) Create(ctx context.Context, payload dto.EvaluationCreateRequest, teacherID uint) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrUserNotFound
		}
		return dto.EvaluationResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.EvaluationResponse{}, ErrNotStudentRole
	}

	evaluation := models.Evaluation{
		Content:   strings.TrimSpace(s.sanitizer.Sanitize(payload.Content)),
		Grade:     payload.Grade,
		TeacherID: teacherID,
		StudentID: payload.StudentID,
	}
	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.logger.Info().Uint("evaluation_id", evaluation.ID).Uint("student_id", payload.StudentID).Msg("evaluation recorded")
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Update(ctx context.Context, evaluationID uint, payload dto.EvaluationUpdateRequest, teacherID uint) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}
	if evaluation.TeacherID != teacherID {
		return dto.EvaluationResponse{}, ErrNotEvaluationAuthor
	}

	if payload.Content != nil {
		evaluation.Content = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Content))
	}
	if payload.Grade != nil {
		evaluation.Grade = *payload.Grade
	}

	if err := s.evaluations.Update(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.logger.Info().Uint("evaluation_id", evaluationID).Msg("evaluation updated")
	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Delete(ctx context.Context, evaluationID, teacherID uint) error {
	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return err
	}
	if evaluation.TeacherID != teacherID {
		return ErrNotEvaluationAuthor
	}

	if err := s.evaluations.Delete(ctx, evaluationID); err != nil {
		return err
	}

	s.logger.Info().Uint("evaluation_id", evaluationID).Msg("evaluation deleted")
	return nil
}

func (s *evaluationService) ListForStudent(ctx context.Context, studentID, teacherID uint) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.ListByStudentAndTeacher(ctx, studentID, teacherID)
	if err != nil {
		return nil, err
	}
	return dto.NewEvaluationResponseSlice(evaluations), nil
}
