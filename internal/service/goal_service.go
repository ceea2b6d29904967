package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrGoalNotFound indicates the requested learning goal does not exist.
	ErrGoalNotFound = errors.New("learning goal not found")
	// ErrNotGoalOwner indicates the caller did not set the goal.
	ErrNotGoalOwner = errors.New("only the assigning teacher may manage this goal")
	// ErrInvalidGoalStatus indicates an unknown goal status.
	ErrInvalidGoalStatus = errors.New("invalid goal status")
)

// GoalService covers learning goals a teacher sets for individual students.
type GoalService interface {
	Create(ctx context.Context, payload dto.GoalCreateRequest, teacherID uint) (dto.GoalResponse, error)
	Update(ctx context.Context, goalID uint, payload dto.GoalUpdateRequest, teacherID uint) (dto.GoalResponse, error)
	Delete(ctx context.Context, goalID, teacherID uint) error
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.GoalResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.GoalResponse, error)
	UpdateProgress(ctx context.Context, goalID, studentID uint, progress int) (dto.GoalResponse, error)
}

type goalService struct {
	goals     repository.GoalRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGoalService builds the learning goal service.
func NewGoalService(goals repository.GoalRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) GoalService {
	return &goalService{
		goals:     goals,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "goal_service").Logger(),
		now:       time.Now,
	}
}

func (s *goalService) Create(ctx context.Context, payload dto.GoalCreateRequest, teacherID uint) (dto.GoalResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GoalResponse{}, err
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GoalResponse{}, ErrUserNotFound
		}
		return dto.GoalResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.GoalResponse{}, ErrNotStudentRole
	}

	goal := models.LearningGoal{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      models.GoalInProgress,
		TeacherID:   teacherID,
		StudentID:   payload.StudentID,
	}
	if payload.DueDate != "" {
		dueDate, err := parseActivityTime(payload.DueDate)
		if err != nil {
			dueDate, err = time.Parse("2006-01-02", payload.DueDate)
			if err != nil {
				return dto.GoalResponse{}, err
			}
		}
		goal.DueDate = &dueDate
	}

	if err := s.goals.Create(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}
	goal.Student = student

	s.logger.Info().Uint("goal_id", goal.ID).Uint("student_id", payload.StudentID).Msg("learning goal created")
	return dto.NewGoalResponse(goal), nil
}

func (s *goalService) Update(ctx context.Context, goalID uint, payload dto.GoalUpdateRequest, teacherID uint) (dto.GoalResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GoalResponse{}, err
	}

	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return dto.GoalResponse{}, err
	}
	if goal.TeacherID != teacherID {
		return dto.GoalResponse{}, ErrNotGoalOwner
	}

	if payload.Status != nil {
		if !models.ValidGoalStatus(*payload.Status) {
			return dto.GoalResponse{}, ErrInvalidGoalStatus
		}
		goal.Status = *payload.Status
	}
	if payload.Title != nil {
		goal.Title = *payload.Title
	}
	if payload.Description != nil {
		goal.Description = *payload.Description
	}
	if payload.Progress != nil {
		goal.Progress = *payload.Progress
		if goal.Progress == 100 {
			goal.Status = models.GoalCompleted
		}
	}
	if payload.DueDate != nil {
		dueDate, err := parseActivityTime(*payload.DueDate)
		if err != nil {
			dueDate, err = time.Parse("2006-01-02", *payload.DueDate)
			if err != nil {
				return dto.GoalResponse{}, err
			}
		}
		goal.DueDate = &dueDate
	}

	if err := s.goals.Update(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}

	s.logger.Info().Uint("goal_id", goalID).Msg("learning goal updated")
	return dto.NewGoalResponse(goal), nil
}

func (s *goalService) Delete(ctx context.Context, goalID, teacherID uint) error {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.TeacherID != teacherID {
		return ErrNotGoalOwner
	}

	if err := s.goals.Delete(ctx, goalID); err != nil {
		return err
	}

	s.logger.Info().Uint("goal_id", goalID).Msg("learning goal deleted")
	return nil
}

func (s *goalService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.GoalResponse, error) {
	goals, err := s.goals.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return dto.NewGoalResponseSlice(goals), nil
}

func (s *goalService) ListForStudent(ctx context.Context, studentID uint) ([]dto.GoalResponse, error) {
	goals, err := s.goals.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewGoalResponseSlice(goals), nil
}

// UpdateProgress lets the goal's student report progress without touching the
// other fields.
func (s *goalService) UpdateProgress(ctx context.Context, goalID, studentID uint, progress int) (dto.GoalResponse, error) {
	if progress < 0 || progress > 100 {
		return dto.GoalResponse{}, errors.New("progress must be between 0 and 100")
	}

	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return dto.GoalResponse{}, err
	}
	if goal.StudentID != studentID {
		return dto.GoalResponse{}, ErrNotGoalOwner
	}

	goal.Progress = progress
	if progress == 100 {
		goal.Status = models.GoalCompleted
	}

	if err := s.goals.Update(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}

	s.logger.Info().Uint("goal_id", goalID).Int("progress", progress).Msg("goal progress reported")
	return dto.NewGoalResponse(goal), nil
}

func (s *goalService) loadGoal(ctx context.Context, goalID uint) (models.LearningGoal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LearningGoal{}, ErrGoalNotFound
		}
		return models.LearningGoal{}, err
	}
	return goal, nil
}
