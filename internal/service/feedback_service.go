package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrFeedbackNotFound indicates the requested feedback does not exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrNotFeedbackRecipient indicates the caller is not the addressed teacher.
	ErrNotFeedbackRecipient = errors.New("only the addressed teacher may reply")
	// ErrNotTeacherRole indicates the target user does not hold the TEACHER role.
	ErrNotTeacherRole = errors.New("user is not a teacher")
)

// FeedbackService covers student messages to teachers and teacher replies.
type FeedbackService interface {
	Send(ctx context.Context, payload dto.FeedbackCreateRequest, studentID uint) (dto.FeedbackResponse, error)
	Reply(ctx context.Context, feedbackID uint, payload dto.FeedbackReplyRequest, teacherID uint) (dto.FeedbackResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.FeedbackResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	feedbacks repository.FeedbackRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewFeedbackService builds the feedback service.
func NewFeedbackService(feedbacks repository.FeedbackRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedbacks: feedbacks,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *feedbackService) Send(ctx context.Context, payload dto.FeedbackCreateRequest, studentID uint) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrUserNotFound
		}
		return dto.FeedbackResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.FeedbackResponse{}, ErrNotTeacherRole
	}

	feedback := models.Feedback{
		Content:   strings.TrimSpace(s.sanitizer.Sanitize(payload.Content)),
		StudentID: studentID,
		TeacherID: payload.TeacherID,
	}
	if err := s.feedbacks.Create(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}
	feedback.Teacher = teacher

	s.logger.Info().Uint("feedback_id", feedback.ID).Uint("teacher_id", payload.TeacherID).Msg("feedback sent")
	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) Reply(ctx context.Context, feedbackID uint, payload dto.FeedbackReplyRequest, teacherID uint) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	feedback, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrFeedbackNotFound
		}
		return dto.FeedbackResponse{}, err
	}
	if feedback.TeacherID != teacherID {
		return dto.FeedbackResponse{}, ErrNotFeedbackRecipient
	}

	repliedAt := s.now()
	feedback.Reply = strings.TrimSpace(s.sanitizer.Sanitize(payload.Reply))
	feedback.RepliedAt = &repliedAt
	if err := s.feedbacks.Update(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Uint("feedback_id", feedbackID).Msg("feedback replied")
	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) ListForStudent(ctx context.Context, studentID uint) ([]dto.FeedbackResponse, error) {
	feedbacks, err := s.feedbacks.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponseSlice(feedbacks), nil
}

func (s *feedbackService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.FeedbackResponse, error) {
	feedbacks, err := s.feedbacks.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponseSlice(feedbacks), nil
}
