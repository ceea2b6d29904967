package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrActivityEnded indicates the activity is already COMPLETED.
	ErrActivityEnded = errors.New("activity has ended")
	// ErrActivityFull indicates registration has reached capacity.
	ErrActivityFull = errors.New("activity is full")
	// ErrAlreadyRegistered indicates an active registration already exists.
	ErrAlreadyRegistered = errors.New("already registered for this activity")
	// ErrNotRegistered indicates no participation exists for the pair.
	ErrNotRegistered = errors.New("not registered for this activity")
	// ErrParticipationNotActive indicates the participation is not in the
	// REGISTERED state required for the transition.
	ErrParticipationNotActive = errors.New("only a registered participation can make this transition")
	// ErrActivityNotCompleted indicates completion was attempted while the
	// activity itself is not yet COMPLETED.
	ErrActivityNotCompleted = errors.New("activity is not completed yet")
)

// ParticipationService drives the registration lifecycle of a user against an
// activity: register, cancel, re-register, complete. The activity's
// participant counter moves with each transition inside the same transaction.
type ParticipationService interface {
	Register(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error)
	Cancel(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error)
	Complete(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error)
	ListForUser(ctx context.Context, userID uint) ([]dto.ActivityResponse, error)
}

type participationService struct {
	participations repository.ParticipationRepository
	activities     repository.ActivityRepository
	users          repository.UserRepository
	logger         zerolog.Logger
	now            func() time.Time
}

// NewParticipationService builds the participation workflow service.
func NewParticipationService(participations repository.ParticipationRepository, activities repository.ActivityRepository, users repository.UserRepository, logger zerolog.Logger) ParticipationService {
	return &participationService{
		participations: participations,
		activities:     activities,
		users:          users,
		logger:         logger.With().Str("component", "participation_service").Logger(),
		now:            time.Now,
	}
}

func (s *participationService) Register(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error) {
	activity, err := s.loadActivity(ctx, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrUserNotFound
		}
		return dto.ActivityResponse{}, err
	}

	if activity.Status == models.ActivityCompleted {
		return dto.ActivityResponse{}, ErrActivityEnded
	}
	if activity.IsFull() {
		return dto.ActivityResponse{}, ErrActivityFull
	}

	registerTime := s.now()
	existing, err := s.participations.GetByUserAndActivity(ctx, userID, activityID)
	switch {
	case err == nil && existing.Status == models.ParticipationRegistered:
		return dto.ActivityResponse{}, ErrAlreadyRegistered
	case err == nil && existing.Status == models.ParticipationCancelled:
		// Re-registration resets the existing row instead of inserting a
		// second one for the same pair.
		existing.Status = models.ParticipationRegistered
		existing.RegisterTime = &registerTime
		existing.CancelTime = nil
		if err := s.participations.Reactivate(ctx, &existing); err != nil {
			return dto.ActivityResponse{}, mapCapacityError(err)
		}
	case err == nil:
		return dto.ActivityResponse{}, ErrParticipationNotActive
	case errors.Is(err, gorm.ErrRecordNotFound):
		participation := models.ActivityParticipation{
			UserID:       userID,
			ActivityID:   activityID,
			Status:       models.ParticipationRegistered,
			RegisterTime: &registerTime,
		}
		if err := s.participations.Register(ctx, &participation); err != nil {
			return dto.ActivityResponse{}, mapCapacityError(err)
		}
	default:
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activityID).Uint("user_id", userID).Msg("activity registration recorded")
	return s.respondWithStatus(ctx, activityID, models.ParticipationRegistered)
}

func (s *participationService) Cancel(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error) {
	if _, err := s.loadActivity(ctx, activityID); err != nil {
		return dto.ActivityResponse{}, err
	}

	participation, err := s.participations.GetByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrNotRegistered
		}
		return dto.ActivityResponse{}, err
	}
	if participation.Status != models.ParticipationRegistered {
		return dto.ActivityResponse{}, ErrParticipationNotActive
	}

	cancelTime := s.now()
	participation.Status = models.ParticipationCancelled
	participation.CancelTime = &cancelTime
	if err := s.participations.Cancel(ctx, &participation); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activityID).Uint("user_id", userID).Msg("activity registration cancelled")
	return s.respondWithStatus(ctx, activityID, models.ParticipationCancelled)
}

func (s *participationService) Complete(ctx context.Context, activityID, userID uint) (dto.ActivityResponse, error) {
	activity, err := s.loadActivity(ctx, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	participation, err := s.participations.GetByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrNotRegistered
		}
		return dto.ActivityResponse{}, err
	}
	if participation.Status != models.ParticipationRegistered {
		return dto.ActivityResponse{}, ErrParticipationNotActive
	}
	if activity.Status != models.ActivityCompleted {
		return dto.ActivityResponse{}, ErrActivityNotCompleted
	}

	completeTime := s.now()
	participation.Status = models.ParticipationCompleted
	participation.CompleteTime = &completeTime
	if err := s.participations.Complete(ctx, &participation); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activityID).Uint("user_id", userID).Msg("activity participation completed")
	return s.respondWithStatus(ctx, activityID, models.ParticipationCompleted)
}

func (s *participationService) ListForUser(ctx context.Context, userID uint) ([]dto.ActivityResponse, error) {
	participations, err := s.participations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(participations))
	for _, participation := range participations {
		response := dto.NewActivityResponse(participation.Activity)
		response.ParticipationStatus = participation.Status
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *participationService) loadActivity(ctx context.Context, activityID uint) (models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrActivityNotFound
		}
		return models.Activity{}, err
	}
	return activity, nil
}

// respondWithStatus re-reads the activity so the caller sees the counter the
// transaction actually produced.
func (s *participationService) respondWithStatus(ctx context.Context, activityID uint, status string) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	response := dto.NewActivityResponse(activity)
	response.ParticipationStatus = status
	return response, nil
}

func mapCapacityError(err error) error {
	if errors.Is(err, repository.ErrCapacityReached) {
		return ErrActivityFull
	}
	return err
}
