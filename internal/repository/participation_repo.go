package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
)

// ErrCapacityReached is returned when a registration write would push an
// activity past its participant limit.
var ErrCapacityReached = errors.New("activity capacity reached")

// ParticipationRepository defines persistence operations for activity
// participations. Register, Reactivate and Cancel keep the activity's
// denormalized participant counter in step with the row transition by running
// both writes in one transaction.
type ParticipationRepository interface {
	GetByUserAndActivity(ctx context.Context, userID, activityID uint) (models.ActivityParticipation, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ActivityParticipation, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error)
	Register(ctx context.Context, participation *models.ActivityParticipation) error
	Reactivate(ctx context.Context, participation *models.ActivityParticipation) error
	Cancel(ctx context.Context, participation *models.ActivityParticipation) error
	Complete(ctx context.Context, participation *models.ActivityParticipation) error
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository instantiates a GORM-backed repository.
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) GetByUserAndActivity(ctx context.Context, userID, activityID uint) (models.ActivityParticipation, error) {
	var participation models.ActivityParticipation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		First(&participation).Error
	if err != nil {
		return models.ActivityParticipation{}, err
	}
	return participation, nil
}

func (r *participationRepository) ListByUser(ctx context.Context, userID uint) ([]models.ActivityParticipation, error) {
	var participations []models.ActivityParticipation
	err := r.db.WithContext(ctx).Preload("Activity").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&participations).Error
	if err != nil {
		return nil, err
	}
	return participations, nil
}

func (r *participationRepository) CountByUserAndStatus(ctx context.Context, userID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActivityParticipation{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *participationRepository) Register(ctx context.Context, participation *models.ActivityParticipation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(participation).Error; err != nil {
			return err
		}
		return incrementParticipants(tx, participation.ActivityID)
	})
}

func (r *participationRepository) Reactivate(ctx context.Context, participation *models.ActivityParticipation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(participation).Error; err != nil {
			return err
		}
		return incrementParticipants(tx, participation.ActivityID)
	})
}

func (r *participationRepository) Cancel(ctx context.Context, participation *models.ActivityParticipation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(participation).Error; err != nil {
			return err
		}
		// Floor at zero: a counter already out of step must not go negative.
		return tx.Model(&models.Activity{}).
			Where("id = ? AND current_participants > 0", participation.ActivityID).
			UpdateColumn("current_participants", gorm.Expr("current_participants - 1")).Error
	})
}

func (r *participationRepository) Complete(ctx context.Context, participation *models.ActivityParticipation) error {
	// Completion does not change the participant counter.
	return r.db.WithContext(ctx).Save(participation).Error
}

// incrementParticipants bumps the counter only while below capacity, so the
// surrounding transaction fails closed when two registrations race over the
// last slot.
func incrementParticipants(tx *gorm.DB, activityID uint) error {
	result := tx.Model(&models.Activity{}).
		Where("id = ? AND current_participants < max_participants", activityID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCapacityReached
	}
	return nil
}
