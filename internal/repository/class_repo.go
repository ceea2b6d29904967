package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
)

// ClassRepository defines persistence operations for classes and their rosters.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Class, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error)
	ListJoinedByStudent(ctx context.Context, studentID uint) ([]models.Class, error)
	ListAvailableForStudent(ctx context.Context, studentID uint) ([]models.Class, error)
	IsMember(ctx context.Context, classID, studentID uint) (bool, error)
	AddStudent(ctx context.Context, classID, studentID uint) error
	RemoveStudent(ctx context.Context, classID, studentID uint) error
	ListStudents(ctx context.Context, classID uint) ([]models.User, error)
	CountStudents(ctx context.Context, classID uint) (int64, error)
	CountJoinedByStudent(ctx context.Context, studentID uint) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Preload("Teacher").First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassStudent{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Class{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *classRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Preload("Teacher").Order("created_at DESC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListJoinedByStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).Preload("Teacher").
		Joins("JOIN class_students ON class_students.class_id = classes.id").
		Where("class_students.student_id = ?", studentID).
		Order("classes.created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListAvailableForStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).Preload("Teacher").
		Where("id NOT IN (?)", r.db.Model(&models.ClassStudent{}).
			Select("class_id").Where("student_id = ?", studentID)).
		Order("created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) IsMember(ctx context.Context, classID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassStudent{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *classRepository) AddStudent(ctx context.Context, classID, studentID uint) error {
	return r.db.WithContext(ctx).Create(&models.ClassStudent{ClassID: classID, StudentID: studentID}).Error
}

func (r *classRepository) RemoveStudent(ctx context.Context, classID, studentID uint) error {
	result := r.db.WithContext(ctx).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Delete(&models.ClassStudent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classRepository) ListStudents(ctx context.Context, classID uint) ([]models.User, error) {
	var students []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN class_students ON class_students.student_id = users.id").
		Where("class_students.class_id = ?", classID).
		Order("users.name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *classRepository) CountStudents(ctx context.Context, classID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassStudent{}).
		Where("class_id = ?", classID).Count(&count).Error
	return count, err
}

func (r *classRepository) CountJoinedByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassStudent{}).
		Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}
