package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lentera-labs/campus-api/internal/models"
)

var (
	// ErrApplicationNotPending is returned when a decision or cancellation
	// finds the stored status already moved past PENDING. The guard runs in
	// the same statement as the write, so a racing caller loses here instead
	// of committing a second transition.
	ErrApplicationNotPending = errors.New("application is no longer pending")
	// ErrDuplicateMembership is returned when the approval's roster insert
	// hits an existing membership row.
	ErrDuplicateMembership = errors.New("student already enrolled in class")
)

// ApplicationRepository defines persistence operations for class applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.ClassApplication) error
	GetByID(ctx context.Context, id uint) (models.ClassApplication, error)
	ExistsPending(ctx context.Context, studentID, classID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.ClassApplication, error)
	ListPendingForTeacher(ctx context.Context, teacherID uint) ([]models.ClassApplication, error)
	// Approve moves a PENDING application to APPROVED and enrolls the student
	// in the class within one transaction. Either both writes land or neither
	// does; a non-pending row yields ErrApplicationNotPending and an existing
	// membership yields ErrDuplicateMembership.
	Approve(ctx context.Context, application *models.ClassApplication) error
	// Reject moves a PENDING application to REJECTED, failing with
	// ErrApplicationNotPending when the row already left PENDING.
	Reject(ctx context.Context, application *models.ClassApplication) error
	// DeletePending removes the application only while it is still PENDING.
	DeletePending(ctx context.Context, id uint) error
	// CreateApproved inserts an already-approved application together with
	// its roster membership, for students enrolled at registration time.
	CreateApproved(ctx context.Context, application *models.ClassApplication) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository instantiates a GORM-backed repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.ClassApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.ClassApplication, error) {
	var application models.ClassApplication
	if err := r.db.WithContext(ctx).Preload("Student").Preload("Class").First(&application, id).Error; err != nil {
		return models.ClassApplication{}, err
	}
	return application, nil
}

func (r *applicationRepository) Reject(ctx context.Context, application *models.ClassApplication) error {
	result := r.db.WithContext(ctx).Model(&models.ClassApplication{}).
		Where("id = ? AND status = ?", application.ID, models.ApplicationPending).
		Updates(map[string]interface{}{
			"status":        models.ApplicationRejected,
			"reject_reason": application.RejectReason,
			"handled_at":    application.HandledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotPending
	}
	return nil
}

func (r *applicationRepository) DeletePending(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("status = ?", models.ApplicationPending).
		Delete(&models.ClassApplication{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotPending
	}
	return nil
}

func (r *applicationRepository) ExistsPending(ctx context.Context, studentID, classID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassApplication{}).
		Where("student_id = ? AND class_id = ? AND status = ?", studentID, classID, models.ApplicationPending).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.ClassApplication, error) {
	var applications []models.ClassApplication
	err := r.db.WithContext(ctx).Preload("Class").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListPendingForTeacher(ctx context.Context, teacherID uint) ([]models.ClassApplication, error) {
	var applications []models.ClassApplication
	err := r.db.WithContext(ctx).Preload("Student").Preload("Class").
		Joins("JOIN classes ON classes.id = class_applications.class_id").
		Where("classes.teacher_id = ? AND class_applications.status = ?", teacherID, models.ApplicationPending).
		Order("class_applications.created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) Approve(ctx context.Context, application *models.ClassApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transition := tx.Model(&models.ClassApplication{}).
			Where("id = ? AND status = ?", application.ID, models.ApplicationPending).
			Updates(map[string]interface{}{
				"status":     models.ApplicationApproved,
				"handled_at": application.HandledAt,
			})
		if transition.Error != nil {
			return transition.Error
		}
		if transition.RowsAffected == 0 {
			return ErrApplicationNotPending
		}

		return insertMembership(tx, application.ClassID, application.StudentID)
	})
}

func (r *applicationRepository) CreateApproved(ctx context.Context, application *models.ClassApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			return err
		}
		return insertMembership(tx, application.ClassID, application.StudentID)
	})
}

// insertMembership adds the roster row, treating a conflict on the
// class/student unique index as ErrDuplicateMembership so the surrounding
// transaction rolls back.
func insertMembership(tx *gorm.DB, classID, studentID uint) error {
	membership := models.ClassStudent{
		ClassID:   classID,
		StudentID: studentID,
	}
	insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership)
	if insert.Error != nil {
		return insert.Error
	}
	if insert.RowsAffected == 0 {
		return ErrDuplicateMembership
	}
	return nil
}
