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
	// ErrActivityNotFound indicates the requested activity does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrNotActivityCreator indicates the caller did not create the activity.
	ErrNotActivityCreator = errors.New("only the creator may manage this activity")
	// ErrInvalidActivityType indicates an unknown activity category.
	ErrInvalidActivityType = errors.New("invalid activity type")
	// ErrInvalidActivityStatus indicates an unknown activity status.
	ErrInvalidActivityStatus = errors.New("invalid activity status")
	// ErrInvalidTimeRange indicates end time is not after start time.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	// ErrCapacityBelowCurrent indicates a capacity shrink under the number of
	// already registered participants.
	ErrCapacityBelowCurrent = errors.New("max participants cannot drop below current registrations")
)

// ActivityService covers creation and maintenance of campus activities.
type ActivityService interface {
	Create(ctx context.Context, payload dto.ActivityCreateRequest, creatorID uint) (dto.ActivityResponse, error)
	Get(ctx context.Context, activityID uint) (dto.ActivityResponse, error)
	Update(ctx context.Context, activityID uint, payload dto.ActivityUpdateRequest, creatorID uint) (dto.ActivityResponse, error)
	Delete(ctx context.Context, activityID, creatorID uint) error
	List(ctx context.Context, activityType string) ([]dto.ActivityResponse, error)
	ListForCreator(ctx context.Context, creatorID uint) ([]dto.ActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	users      repository.UserRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewActivityService builds the activity service.
func NewActivityService(activities repository.ActivityRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		users:      users,
		validator:  validate,
		logger:     logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Create(ctx context.Context, payload dto.ActivityCreateRequest, creatorID uint) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}
	if !models.ValidActivityType(payload.Type) {
		return dto.ActivityResponse{}, ErrInvalidActivityType
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrUserNotFound
		}
		return dto.ActivityResponse{}, err
	}

	startTime, err := parseActivityTime(payload.StartTime)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	endTime, err := parseActivityTime(payload.EndTime)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	if !endTime.After(startTime) {
		return dto.ActivityResponse{}, ErrInvalidTimeRange
	}

	activity := models.Activity{
		Title:           payload.Title,
		Description:     payload.Description,
		Location:        payload.Location,
		Organizer:       payload.Organizer,
		Type:            payload.Type,
		Status:          models.ActivityUpcoming,
		StartTime:       startTime,
		EndTime:         endTime,
		MaxParticipants: payload.MaxParticipants,
		CreatorID:       creatorID,
	}
	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}
	activity.Creator = creator

	s.logger.Info().Uint("activity_id", activity.ID).Uint("creator_id", creatorID).Msg("activity created")
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Get(ctx context.Context, activityID uint) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Update(ctx context.Context, activityID uint, payload dto.ActivityUpdateRequest, creatorID uint) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	if activity.CreatorID != creatorID {
		return dto.ActivityResponse{}, ErrNotActivityCreator
	}

	if payload.Type != nil {
		if !models.ValidActivityType(*payload.Type) {
			return dto.ActivityResponse{}, ErrInvalidActivityType
		}
		activity.Type = *payload.Type
	}
	if payload.Status != nil {
		if !models.ValidActivityStatus(*payload.Status) {
			return dto.ActivityResponse{}, ErrInvalidActivityStatus
		}
		activity.Status = *payload.Status
	}
	if payload.Title != nil {
		activity.Title = *payload.Title
	}
	if payload.Description != nil {
		activity.Description = *payload.Description
	}
	if payload.Location != nil {
		activity.Location = *payload.Location
	}
	if payload.Organizer != nil {
		activity.Organizer = *payload.Organizer
	}
	if payload.StartTime != nil {
		startTime, err := parseActivityTime(*payload.StartTime)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		activity.StartTime = startTime
	}
	if payload.EndTime != nil {
		endTime, err := parseActivityTime(*payload.EndTime)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		activity.EndTime = endTime
	}
	if !activity.EndTime.After(activity.StartTime) {
		return dto.ActivityResponse{}, ErrInvalidTimeRange
	}
	if payload.MaxParticipants != nil {
		if *payload.MaxParticipants < activity.CurrentParticipants {
			return dto.ActivityResponse{}, ErrCapacityBelowCurrent
		}
		activity.MaxParticipants = *payload.MaxParticipants
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activityID).Msg("activity updated")
	return dto.NewActivityResponse(activity), nil
}

func (s *activityService) Delete(ctx context.Context, activityID, creatorID uint) error {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	if activity.CreatorID != creatorID {
		return ErrNotActivityCreator
	}

	if err := s.activities.Delete(ctx, activityID); err != nil {
		return err
	}

	s.logger.Info().Uint("activity_id", activityID).Msg("activity deleted")
	return nil
}

func (s *activityService) List(ctx context.Context, activityType string) ([]dto.ActivityResponse, error) {
	if activityType != "" {
		if !models.ValidActivityType(activityType) {
			return nil, ErrInvalidActivityType
		}
		activities, err := s.activities.ListByType(ctx, activityType)
		if err != nil {
			return nil, err
		}
		return dto.NewActivityResponseSlice(activities), nil
	}

	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(activities), nil
}

func (s *activityService) ListForCreator(ctx context.Context, creatorID uint) ([]dto.ActivityResponse, error) {
	activities, err := s.activities.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(activities), nil
}

// parseActivityTime accepts RFC 3339 first, then the date-time form used by
// common frontend pickers.
func parseActivityTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
