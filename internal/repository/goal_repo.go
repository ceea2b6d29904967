package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
)

// GoalRepository defines persistence operations for learning goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.LearningGoal) error
	GetByID(ctx context.Context, id uint) (models.LearningGoal, error)
	Update(ctx context.Context, goal *models.LearningGoal) error
	Delete(ctx context.Context, id uint) error
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.LearningGoal, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.LearningGoal, error)
	ListByStudentAndTeacher(ctx context.Context, studentID, teacherID uint) ([]models.LearningGoal, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
	CountByStudentAndStatus(ctx context.Context, studentID uint, status string) (int64, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository instantiates a GORM-backed repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.LearningGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id uint) (models.LearningGoal, error) {
	var goal models.LearningGoal
	if err := r.db.WithContext(ctx).Preload("Teacher").Preload("Student").First(&goal, id).Error; err != nil {
		return models.LearningGoal{}, err
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *models.LearningGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LearningGoal{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *goalRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.LearningGoal, error) {
	var goals []models.LearningGoal
	err := r.db.WithContext(ctx).Preload("Student").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.LearningGoal, error) {
	var goals []models.LearningGoal
	err := r.db.WithContext(ctx).Preload("Teacher").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListByStudentAndTeacher(ctx context.Context, studentID, teacherID uint) ([]models.LearningGoal, error) {
	var goals []models.LearningGoal
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LearningGoal{}).
		Where("teacher_id = ?", teacherID).Count(&count).Error
	return count, err
}

func (r *goalRepository) CountByStudentAndStatus(ctx context.Context, studentID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LearningGoal{}).
		Where("student_id = ? AND status = ?", studentID, status).Count(&count).Error
	return count, err
}

func (r *goalRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LearningGoal{}).
		Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}
